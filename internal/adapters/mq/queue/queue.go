// Package queue hands state snapshots from the store to the persist worker.
//
// The queue is bounded and never blocks the writer: when it is full the
// oldest pending snapshot is dropped, since a newer one supersedes it.
package queue

import (
	"context"
	"sync"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 16
)

// Snapshot is the payload type flowing through the queue.
type Snapshot = model.Snapshot

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a snapshot, dropping the oldest pending one when full.
	// Returns false only if the queue is closed or ctx is done.
	Enqueue(ctx context.Context, s Snapshot) bool

	// Dequeue returns a channel that receives snapshots in order.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Snapshot

	// Len returns the current number of queued snapshots.
	Len(ctx context.Context) int

	// Close stops accepting snapshots. Pending ones stay readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Snapshot
	capacity int
	mu       sync.Mutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Snapshot, q.capacity)
	metrics.UpdatePersistQueueSize(0)
	return q
}

// Enqueue adds a snapshot to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Snapshot) bool { //nolint:gocritic // hugeParam: snapshots travel by value
	if ctx.Err() != nil {
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	for {
		select {
		case q.items <- s:
			metrics.UpdatePersistQueueSize(len(q.items))
			return true
		default:
		}
		// Full: drop the oldest. The consumer may race us to it, which is fine.
		select {
		case <-q.items:
			metrics.RecordPersistSuperseded()
		default:
		}
	}
}

// Save implements repository.Saver by enqueueing the snapshot.
func (q *InMemoryQueue) Save(ctx context.Context, s Snapshot) error { //nolint:gocritic // hugeParam: snapshots travel by value
	if !q.Enqueue(ctx, s) {
		if q.IsClosed() {
			return ErrClosed
		}
		return ctx.Err()
	}
	return nil
}

// Dequeue returns a channel that will receive snapshots as they become available.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Snapshot {
	return q.items
}

// Len returns the current number of queued snapshots.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.items)
	metrics.UpdatePersistQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
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
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
