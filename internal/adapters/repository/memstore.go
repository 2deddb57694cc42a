package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/okian/simonev/internal/domain/matching"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/ranking"
	"github.com/okian/simonev/internal/domain/scoring"
	"github.com/okian/simonev/pkg/logger"
	"github.com/okian/simonev/pkg/metrics"
)

// MemoryStore keeps the state in memory as an immutable snapshot behind an
// atomic pointer. Every write builds a new snapshot under mu, publishes it and
// hands it to the Saver.
type MemoryStore struct {
	mu    sync.Mutex
	state atomic.Pointer[model.Snapshot]

	cfg storeConfig
}

// NewMemoryStore creates a store seeded with initial.
func NewMemoryStore(initial model.Snapshot, opts ...Option) *MemoryStore {
	s := &MemoryStore{cfg: defaultStoreConfig()}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	snap := initial.Clone()
	snap.Schools = model.Migrate(snap.Schools)
	s.state.Store(&snap)
	updateGauges(snap)
	return s
}

func (s *MemoryStore) current() *model.Snapshot {
	return s.state.Load()
}

// Snapshot implements Store.
func (s *MemoryStore) Snapshot(_ context.Context) model.Snapshot {
	return s.current().Clone()
}

// Schools implements Store.
func (s *MemoryStore) Schools(_ context.Context) []model.School {
	return s.current().Clone().Schools
}

// Events implements Store.
func (s *MemoryStore) Events(_ context.Context) []model.Event {
	return s.current().Clone().Events
}

// Event implements Store.
func (s *MemoryStore) Event(_ context.Context, id string) (model.Event, error) {
	for _, e := range s.current().Events {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

// AddEvent implements Store.
func (s *MemoryStore) AddEvent(ctx context.Context, ev model.Event) (model.Event, error) {
	ctx, span := s.cfg.tracer.Start(ctx, "Store.AddEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event.id", ev.ID))

	if ev.ID == "" {
		return model.Event{}, fmt.Errorf("%w: id must not be empty", model.ErrInvalidEvent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current()
	for _, e := range cur.Events {
		if e.ID == ev.ID {
			span.SetStatus(codes.Error, "duplicate event id")
			return model.Event{}, fmt.Errorf("%w: %s", ErrDuplicateEvent, ev.ID)
		}
	}

	next := cur.Clone()
	next.Events = append(next.Events, ev)
	for i := range next.Schools {
		next.Schools[i].TotalEventsPossible++
	}
	s.publish(ctx, next)
	return ev, nil
}

// Credit implements Store.
func (s *MemoryStore) Credit(ctx context.Context, eventID string, matched matching.IDSet, kind model.DataKind, meta scoring.Meta) (scoring.Outcome, error) {
	ctx, span := s.cfg.tracer.Start(ctx, "Store.Credit")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.id", eventID),
		attribute.String("kind", string(kind)),
		attribute.Int("matched", len(matched)),
	)
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current()
	var (
		ev    model.Event
		found bool
	)
	for _, e := range cur.Events {
		if e.ID == eventID {
			ev, found = e, true
			break
		}
	}
	if !found {
		metrics.RecordUnknownEvent()
		return scoring.Outcome{EventFound: false}, nil
	}

	schools, out := s.cfg.engine.Credit(cur.Schools, ev, matched, kind, meta)
	metrics.RecordCredits(len(out.Credited), len(out.Skipped))
	metrics.RecordCreditLatency(float64(time.Since(start).Microseconds()) / 1000)
	span.SetAttributes(attribute.Int("credited", len(out.Credited)), attribute.Int("skipped", len(out.Skipped)))

	if len(out.Credited) == 0 {
		return out, nil
	}
	next := model.Snapshot{Schools: schools, Events: cur.Clone().Events}
	s.publish(ctx, next)
	return out, nil
}

// Restore implements Store.
func (s *MemoryStore) Restore(ctx context.Context, p model.PartialSnapshot) error {
	ctx, span := s.cfg.tracer.Start(ctx, "Store.Restore")
	defer span.End()
	span.SetAttributes(attribute.Bool("schools", p.HasSchools), attribute.Bool("events", p.HasEvents))

	if !p.HasSchools && !p.HasEvents {
		metrics.RecordRestore("rejected")
		return fmt.Errorf("%w: nothing to restore", model.ErrMalformedSnapshot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := p.Apply(*s.current())
	next.Schools = model.Migrate(next.Schools)
	s.publish(ctx, next)
	metrics.RecordRestore("ok")
	return nil
}

// publish must be called with mu held.
func (s *MemoryStore) publish(ctx context.Context, next model.Snapshot) {
	s.state.Store(&next)
	updateGauges(next)

	if s.cfg.saver == nil {
		return
	}
	if err := s.cfg.saver.Save(ctx, next.Clone()); err != nil {
		metrics.RecordErrorByComponent("repository", "save")
		logger.Get().Error(ctx, "failed to hand snapshot to saver", logger.Error(err))
	}
}

func updateGauges(snap model.Snapshot) {
	metrics.UpdateTotalSchools(len(snap.Schools))
	metrics.UpdateTotalEvents(len(snap.Events))
	for t, n := range ranking.TierCounts(snap.Schools, model.All) {
		metrics.UpdateTierDistribution(string(t), n)
	}
}
