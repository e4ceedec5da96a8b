package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/metrics"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
)

var ErrPoolStopped = errors.New("worker pool stopped")

type Options struct {
	MinWorkers  int64
	MaxWorkers  int64
	IdleTimeout time.Duration
	BufferLimit int
}

func DefaultOptions() Options {
	return Options{
		MinWorkers:  config.MinWorkerCount,
		MaxWorkers:  config.MaxWorkerCount,
		IdleTimeout: config.IdleWorkerTimeout,
		BufferLimit: config.BufferLimit,
	}
}

type task struct {
	ctx  context.Context
	fn   func(ctx context.Context)
	done chan struct{}
}

// Pool runs agent calls on a bounded, self-sizing set of workers. The dispatcher adds a
// worker whenever work is waiting and the pool is below MaxWorkers; workers idle for
// IdleTimeout retire down to MinWorkers.
type Pool struct {
	opts           Options
	tasks          chan task
	dispatcher     chan struct{}
	stop           chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup
	currentWorkers int64
	logger         *logger_i.Logger
}

func NewPool(opts Options) *Pool {
	if opts.MinWorkers < 1 {
		opts.MinWorkers = 1
	}
	if opts.MaxWorkers < opts.MinWorkers {
		opts.MaxWorkers = opts.MinWorkers
	}
	p := &Pool{
		opts:       opts,
		tasks:      make(chan task, opts.BufferLimit),
		dispatcher: make(chan struct{}, opts.BufferLimit+1),
		stop:       make(chan struct{}),
		logger:     logger_i.NewLogger("WorkerPool"),
	}
	p.logger.Info("Initializing worker pool", "min", opts.MinWorkers, "max", opts.MaxWorkers)
	for i := int64(0); i < opts.MinWorkers; i++ {
		p.createWorker()
	}
	go p.dispatch()
	return p
}

// Submit queues fn and blocks until it has run, ctx is done, or the pool stops.
// fn receives ctx; on an early return its results must not be read.
func (p *Pool) Submit(ctx context.Context, fn func(ctx context.Context)) error {
	t := task{ctx: ctx, fn: fn, done: make(chan struct{})}

	select {
	case <-p.stop:
		return ErrPoolStopped
	default:
	}

	select {
	case p.tasks <- t:
		metrics.IncrementQueueDepth()
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stop:
		return ErrPoolStopped
	}

	select {
	case p.dispatcher <- struct{}{}:
	default:
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stop:
		return ErrPoolStopped
	}
}

// Stop retires every worker and waits for running tasks to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *Pool) Workers() int64 {
	return atomic.LoadInt64(&p.currentWorkers)
}

func (p *Pool) dispatch() {
	for {
		select {
		case <-p.stop:
			return
		case <-p.dispatcher:
			if len(p.tasks) > 0 && atomic.LoadInt64(&p.currentWorkers) < p.opts.MaxWorkers {
				p.logger.Debug("Creating new worker", "workerCount", atomic.LoadInt64(&p.currentWorkers))
				p.createWorker()
			}
		}
	}
}

func (p *Pool) createWorker() {
	p.wg.Add(1)
	atomic.AddInt64(&p.currentWorkers, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	for {
		select {
		case t := <-p.tasks:
			metrics.DecrementQueueDepth()
			p.execute(t)

		case <-p.stop:
			atomic.AddInt64(&p.currentWorkers, -1)
			p.removeWorker("stop signal received")
			return

		case <-time.After(p.opts.IdleTimeout):
			if p.tryRetire() {
				p.removeWorker("idle worker timeout")
				return
			}
		}
	}
}

func (p *Pool) execute(t task) {
	defer close(t.done)
	if t.ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.FromContext(t.ctx).Error("Task panicked", "panic", r)
		}
	}()
	t.fn(t.ctx)
}

// tryRetire claims one worker slot for retirement without dropping below MinWorkers.
func (p *Pool) tryRetire() bool {
	for {
		n := atomic.LoadInt64(&p.currentWorkers)
		if n <= p.opts.MinWorkers {
			return false
		}
		if atomic.CompareAndSwapInt64(&p.currentWorkers, n, n-1) {
			return true
		}
	}
}

// removeWorker expects currentWorkers to be decremented already.
func (p *Pool) removeWorker(reason string) {
	metrics.DecrementActiveWorkerCount()
	p.logger.Debug("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&p.currentWorkers))
	p.wg.Done()
}
