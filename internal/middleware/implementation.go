package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/akolanti/CSVAgent/internal/handlers"
	"github.com/akolanti/CSVAgent/internal/metrics"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
	isPage     bool
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// SessionLoader returns the stored session for id, or a fresh one.
type SessionLoader interface {
	Session(ctx context.Context, id string) sessionModel.SessionState
}

type Options struct {
	AuthToken     string
	RatePerSecond rate.Limit
	Burst         int
	SecureCookie  bool
}

func DefaultOptions(authToken string) Options {
	return Options{
		AuthToken:     authToken,
		RatePerSecond: rate.Limit(config.RATE_LIMIT_PER_SECOND),
		Burst:         config.BURST_RATE_LIMIT_PER_SECOND,
	}
}

type Chain struct {
	opts     Options
	limiter  *IPRateLimiter
	sessions SessionLoader
}

func New(opts Options, sessions SessionLoader) *Chain {
	return &Chain{
		opts:     opts,
		limiter:  NewIPRateLimiter(opts.RatePerSecond, opts.Burst),
		sessions: sessions,
	}
}

// Wrap guards a JSON endpoint that needs no session.
func (c *Chain) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := c.processRequest(requestResponseStruct{req: r, writer: rec})
		if !handleBadRequest(re) {
			recordMetrics(re.req, rec.Status)
			return
		}
		next(rec, re.req)
		recordMetrics(re.req, rec.Status)
	}
}

// API guards a JSON endpoint and hands it the caller's session.
func (c *Chain) API(next handlers.SessionHandler) http.HandlerFunc {
	return c.withSession(next, false)
}

// Page serves the HTML surface: no bearer auth, same trace, rate limit and session.
func (c *Chain) Page(next handlers.SessionHandler) http.HandlerFunc {
	return c.withSession(next, true)
}

func (c *Chain) withSession(next handlers.SessionHandler, isPage bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := c.processRequest(requestResponseStruct{req: r, writer: rec, isPage: isPage})
		if !handleBadRequest(re) {
			recordMetrics(re.req, rec.Status)
			return
		}
		re, sess := c.resolveSession(re)
		next(rec, re.req, sess)
		recordMetrics(re.req, rec.Status)
	}
}

func (c *Chain) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	if !re.isPage {
		re = c.authenticate(re)
		if re.badRequest.isBadRequest {
			return re //stop if auth fails
		}
	}
	return c.rateLimiter(re)
}

func recordMetrics(r *http.Request, status int) {
	path := r.URL.Path
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		path = rc.RoutePattern()
	}
	metrics.HttpRequestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
}
