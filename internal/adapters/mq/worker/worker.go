// Package worker persists queued snapshots in the background.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/simonev/internal/adapters/mq/queue"
	"github.com/okian/simonev/pkg/logger"
	"github.com/okian/simonev/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultSaveTimeout = 10 * time.Second
)

// Snapshot is what the worker reads off the queue.
type Snapshot = queue.Snapshot

// Saver writes a snapshot to durable storage.
type Saver interface {
	Save(ctx context.Context, s Snapshot) error
}

// Queue defines how the worker receives snapshots.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Snapshot
}

// Worker drains a queue into a Saver.
type Worker interface {
	// Run processes snapshots until the queue is closed.
	Run(ctx context.Context)

	// Shutdown closes the queue, waits for pending snapshots to be written
	// and returns when done or when ctx expires.
	Shutdown(ctx context.Context) error
}

// PersistWorker is the single writer of the persistence backend. When several
// snapshots are pending only the newest is written.
type PersistWorker struct {
	queue       Queue
	saver       Saver
	name        string
	saveTimeout time.Duration

	done chan struct{}

	logger logger.Logger
}

// NewPersistWorker creates a worker with configuration options.
func NewPersistWorker(q Queue, saver Saver, opts ...Option) *PersistWorker {
	w := &PersistWorker{
		queue:       q,
		saver:       saver,
		name:        "persist",
		saveTimeout: defaultSaveTimeout,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop. It returns once the queue is closed and drained;
// cancelling ctx does not stop it so that a shutdown can still flush.
func (w *PersistWorker) Run(ctx context.Context) {
	defer close(w.done)

	base := context.WithoutCancel(ctx)
	ch := w.queue.Dequeue(ctx)
	for snap := range ch {
		snap, closed := latest(ch, snap)
		if err := w.persist(base, snap); err != nil {
			w.logger.Error(base, "error persisting snapshot", logger.Error(err))
		}
		if closed {
			return
		}
	}
}

// latest drains whatever is already queued and returns the newest snapshot.
func latest(ch <-chan Snapshot, cur Snapshot) (Snapshot, bool) { //nolint:gocritic // hugeParam: snapshots travel by value
	for {
		select {
		case next, ok := <-ch:
			if !ok {
				return cur, true
			}
			metrics.RecordPersistSuperseded()
			cur = next
		default:
			return cur, false
		}
	}
}

func (w *PersistWorker) persist(ctx context.Context, snap Snapshot) error { //nolint:gocritic // hugeParam: snapshots travel by value
	ctx, cancel := context.WithTimeout(ctx, w.saveTimeout)
	defer cancel()

	start := time.Now()
	if err := w.saver.Save(ctx, snap); err != nil {
		metrics.RecordPersistError()
		metrics.RecordErrorByComponent("worker", "persist_error")
		metrics.RecordErrorLatency("worker", "persist_error", float64(time.Since(start).Milliseconds()))
		return fmt.Errorf("save snapshot: %w", err)
	}
	metrics.RecordPersistSave(float64(time.Since(start).Microseconds()) / 1000)
	w.logger.Debug(ctx, "snapshot persisted",
		logger.Int("schools", len(snap.Schools)),
		logger.Int("events", len(snap.Events)),
	)
	return nil
}

// Shutdown gracefully stops the worker.
func (w *PersistWorker) Shutdown(ctx context.Context) error {
	if closer, ok := w.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			w.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
