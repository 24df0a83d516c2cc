// Package worker folds queued contestant partitions into per-worker
// accumulators. Workers never share state; the caller merges their
// accumulators once the queue is drained.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/quizpattern/internal/adapters/mq/queue"
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/pkg/logger"
	"github.com/okian/quizpattern/pkg/metrics"
)

// Accumulator absorbs contestant sequences.
type Accumulator interface {
	Observe(s *model.Sequence)
}

// Factory builds an empty accumulator for one worker.
type Factory[A Accumulator] func() (A, error)

// Queue defines how workers receive partitions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Partition
}

// InMemoryWorker drains partitions into its own accumulator.
type InMemoryWorker[A Accumulator] struct {
	queue Queue
	acc   A
	name  string

	partitions int
	sequences  int

	done   chan struct{}
	err    error
	logger logger.Logger
}

func apply(opts []Option) settings {
	s := settings{name: "worker"}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("worker")
	}
	return s
}

// NewInMemoryWorker creates a worker that owns acc.
func NewInMemoryWorker[A Accumulator](q Queue, acc A, opts ...Option) *InMemoryWorker[A] {
	s := apply(opts)
	l := s.logger
	if s.name != "worker" {
		l = l.Named(s.name)
	}
	return &InMemoryWorker[A]{
		queue:  q,
		acc:    acc,
		name:   s.name,
		done:   make(chan struct{}),
		logger: l,
	}
}

// Run consumes partitions until the queue is closed and drained or ctx is
// done. It returns ctx's error in the latter case.
func (w *InMemoryWorker[A]) Run(ctx context.Context) error {
	defer close(w.done)

	partitions := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			w.err = ctx.Err()
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "context_cancelled")
			return w.err
		case p, ok := <-partitions:
			if !ok {
				// the forwarding channel also closes on cancellation
				if err := ctx.Err(); err != nil {
					w.err = err
					return err
				}
				w.logger.Debug(ctx, "queue drained",
					logger.Int("partitions", w.partitions),
					logger.Int("contestants", w.sequences),
				)
				return nil
			}
			w.process(p)
		}
	}
}

func (w *InMemoryWorker[A]) process(p queue.Partition) {
	start := time.Now()
	for _, s := range p.Sequences {
		w.acc.Observe(s)
	}
	w.partitions++
	w.sequences += len(p.Sequences)
	metrics.RecordWorkerPartition(float64(time.Since(start).Milliseconds()))
}

// Accumulator returns the worker's accumulator. It must only be read after
// Run has returned.
func (w *InMemoryWorker[A]) Accumulator() A { return w.acc }

// Done is closed when Run returns.
func (w *InMemoryWorker[A]) Done() <-chan struct{} { return w.done }

// Pool runs a fixed set of workers over one queue.
type Pool[A Accumulator] struct {
	workers []*InMemoryWorker[A]
	queue   Queue

	mu      sync.Mutex
	started bool

	logger logger.Logger
}

// NewPool creates workerCount workers, each with an accumulator from newAcc.
// A count below one selects runtime.NumCPU().
func NewPool[A Accumulator](workerCount int, q Queue, newAcc Factory[A], opts ...Option) (*Pool[A], error) {
	if newAcc == nil {
		return nil, ErrNoFactory
	}
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	s := apply(opts)

	pool := &Pool[A]{
		workers: make([]*InMemoryWorker[A], workerCount),
		queue:   q,
		logger:  s.logger.Named("worker-pool"),
	}
	for i := range pool.workers {
		acc, err := newAcc()
		if err != nil {
			return nil, fmt.Errorf("worker %d accumulator: %w", i, err)
		}
		pool.workers[i] = NewInMemoryWorker(q, acc,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(s.logger),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool, nil
}

// Size returns the number of workers.
func (p *Pool[A]) Size() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool[A]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrAlreadyStarted
	}
	p.started = true
	for _, w := range p.workers {
		go func(w *InMemoryWorker[A]) { _ = w.Run(ctx) }(w)
	}
	return nil
}

// Wait blocks until every worker has returned and yields their accumulators
// in worker order. The queue must be closed for workers to finish.
func (p *Pool[A]) Wait() ([]A, error) {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return nil, ErrNotStarted
	}

	out := make([]A, 0, len(p.workers))
	var firstErr error
	for _, w := range p.workers {
		<-w.done
		if w.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", w.name, w.err)
		}
		out = append(out, w.acc)
	}
	if firstErr != nil {
		p.logger.Warn(context.Background(), "workers stopped early", logger.Error(firstErr))
		return nil, firstErr
	}
	return out, nil
}

// Shutdown closes the queue when it supports closing, then waits for the
// workers or ctx, whichever comes first.
func (p *Pool[A]) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown timed out: %w", ctx.Err())
		}
	}
	return nil
}
