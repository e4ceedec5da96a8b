package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var archivesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "archives_ingested_total",
	Help: "Uploaded archives labelled by outcome",
}, []string{"result"})

var interactionsLogged = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "interactions_logged_total",
	Help: "Interaction log writes labelled by outcome",
}, []string{"result"})

var dispatchQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatch_queue_depth",
	Help: "Agent tasks waiting for a worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var agentLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "agent_latency_seconds",
	Help:    "Time spent waiting on the reasoning agent.",
	Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 120},
}, []string{"provider", "status"})

var stepLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_step_latency_seconds",
	Help:    "Latency of pipeline steps (extraction, preview, log write).",
	Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5},
}, []string{"step"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func RecordArchive(result string) {
	archivesIngested.WithLabelValues(result).Inc()
}

func RecordInteraction(result string) {
	interactionsLogged.WithLabelValues(result).Inc()
}

func IncrementQueueDepth() {
	dispatchQueueDepth.Inc()
}

func DecrementQueueDepth() {
	dispatchQueueDepth.Dec()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CaptureAgentMetrics(provider string, status string, timeElapsed time.Duration) {
	agentLatency.WithLabelValues(provider, status).Observe(timeElapsed.Seconds())
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	stepLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
