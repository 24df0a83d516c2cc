// Package queue carries contestant partitions from the producer of an
// analysis run to its workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/pkg/metrics"
)

const defaultCapacity = 1024

// Partition is a disjoint batch of contestant sequences.
type Partition struct {
	Index     int
	Sequences []*model.Sequence
}

// Queue provides enqueue and channel-based dequeue semantics.
type Queue interface {
	// TryEnqueue adds p without blocking.
	// Returns false if the queue is full or closed.
	TryEnqueue(ctx context.Context, p Partition) bool

	// Enqueue adds p, waiting for room until ctx is done.
	Enqueue(ctx context.Context, p Partition) error

	// Dequeue returns a channel that receives partitions as they become
	// available. The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Partition

	// Len returns the current number of queued partitions.
	Len() int

	// Close stops accepting partitions. Queued partitions are still delivered.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Partition
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Partition, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// TryEnqueue adds p if there is room.
func (q *InMemoryQueue) TryEnqueue(ctx context.Context, p Partition) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.reject("closed")
		return false
	}
	select {
	case q.items <- p:
		q.accepted()
		return true
	case <-ctx.Done():
		q.reject("context_cancelled")
		return false
	default:
		q.reject("queue_full")
		return false
	}
}

// Enqueue adds p, blocking while the queue is full.
func (q *InMemoryQueue) Enqueue(ctx context.Context, p Partition) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.reject("closed")
		return ErrClosed
	}
	select {
	case q.items <- p:
		q.accepted()
		return nil
	case <-ctx.Done():
		q.reject("context_cancelled")
		return ctx.Err()
	}
}

func (q *InMemoryQueue) accepted() {
	metrics.RecordQueueEnqueue()
	metrics.UpdateQueueSize(len(q.items))
}

func (q *InMemoryQueue) reject(reason string) {
	metrics.RecordQueueEnqueueError()
	metrics.RecordErrorByComponent("queue", reason)
}

// Dequeue returns a channel that will receive partitions as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Partition {
	out := make(chan Partition)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case p, ok := <-q.items:
				if !ok {
					return
				}
				select {
				case out <- p:
					metrics.RecordQueueDequeue()
					metrics.UpdateQueueSize(len(q.items))
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued partitions.
func (q *InMemoryQueue) Len() int {
	return len(q.items)
}

// Close stops accepting partitions.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
