package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/simonev/internal/adapters/mq/queue"
	"github.com/okian/simonev/internal/adapters/mq/worker"
	"github.com/okian/simonev/internal/domain/model"
	logging "github.com/okian/simonev/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockSaver struct {
	mu    sync.Mutex
	saved []model.Snapshot
	err   error
	block chan struct{}
}

func (m *mockSaver) Save(ctx context.Context, s model.Snapshot) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, s)
	return m.err
}

func (m *mockSaver) snapshots() []model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Snapshot(nil), m.saved...)
}

func snap(id string) model.Snapshot {
	return model.Snapshot{Events: []model.Event{{ID: id}}}
}

func TestPersistWorker(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a persist worker over an in-memory queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		saver := &mockSaver{}
		w := worker.NewPersistWorker(q, saver, worker.WithName("persist-test"), worker.WithSaveTimeout(time.Second))

		convey.Convey("When a snapshot is queued while running", func() {
			go w.Run(ctx)
			convey.So(q.Save(ctx, snap("s1")), convey.ShouldBeNil)

			convey.Convey("Then it is saved", func() {
				deadline := time.Now().Add(2 * time.Second)
				for len(saver.snapshots()) == 0 && time.Now().Before(deadline) {
					time.Sleep(5 * time.Millisecond)
				}
				convey.So(len(saver.snapshots()), convey.ShouldEqual, 1)
				convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When several snapshots are pending at shutdown", func() {
			for _, id := range []string{"s1", "s2", "s3"} {
				convey.So(q.Save(ctx, snap(id)), convey.ShouldBeNil)
			}
			go w.Run(ctx)
			err := w.Shutdown(ctx)

			convey.Convey("Then the newest one is flushed last", func() {
				convey.So(err, convey.ShouldBeNil)
				saved := saver.snapshots()
				convey.So(len(saved), convey.ShouldBeGreaterThan, 0)
				convey.So(saved[len(saved)-1].Events[0].ID, convey.ShouldEqual, "s3")
			})
		})

		convey.Convey("When the run context is cancelled before shutdown", func() {
			cctx, cancel := context.WithCancel(ctx)
			go w.Run(cctx)
			cancel()
			convey.So(q.Save(ctx, snap("after-cancel")), convey.ShouldBeNil)
			err := w.Shutdown(ctx)

			convey.Convey("Then pending snapshots are still flushed", func() {
				convey.So(err, convey.ShouldBeNil)
				saved := saver.snapshots()
				convey.So(len(saved), convey.ShouldEqual, 1)
				convey.So(saved[0].Events[0].ID, convey.ShouldEqual, "after-cancel")
			})
		})

		convey.Convey("When the saver fails", func() {
			saver.err = errors.New("disk full")
			convey.So(q.Save(ctx, snap("s1")), convey.ShouldBeNil)
			go w.Run(ctx)

			convey.Convey("Then the worker keeps going and shuts down cleanly", func() {
				convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
				convey.So(len(saver.snapshots()), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When shutdown outlives its context", func() {
			saver.block = make(chan struct{})
			convey.So(q.Save(ctx, snap("s1")), convey.ShouldBeNil)
			go w.Run(ctx)
			sctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			err := w.Shutdown(sctx)
			close(saver.block)

			convey.Convey("Then it reports the timeout", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})
	})
}
