// Package service composes the participation store with its collaborators
// and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/simonev/internal/adapters/chart"
	"github.com/okian/simonev/internal/adapters/dateparse"
	"github.com/okian/simonev/internal/adapters/mq/queue"
	"github.com/okian/simonev/internal/adapters/mq/worker"
	"github.com/okian/simonev/internal/adapters/persistence"
	"github.com/okian/simonev/internal/adapters/repository"
	"github.com/okian/simonev/internal/adapters/roster"
	"github.com/okian/simonev/internal/adapters/seed"
	"github.com/okian/simonev/internal/adapters/summary"
	"github.com/okian/simonev/internal/domain/dedupe"
	"github.com/okian/simonev/internal/domain/matching"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/ranking"
	"github.com/okian/simonev/internal/domain/scoring"
	"github.com/okian/simonev/internal/domain/types"
	"github.com/okian/simonev/pkg/logger"
	"github.com/okian/simonev/pkg/metrics"
)

const suggestionsPerLine = 3

// Service implements the API dependencies for the participation tracker.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	backend    persistence.Backend
	persistQ   *queue.InMemoryQueue
	persister  *worker.PersistWorker
	summarizer *summary.Summarizer
	dates      *dateparse.Parser
	engine     *scoring.Engine

	// Configuration
	seedSchools      []model.School
	seedPath         string
	defaultWeight    float64
	persistQueueSize int
	dedupeSize       int
	newID            func() string
	now              func() time.Time

	// State
	started bool

	logger logger.Logger
	tracer trace.Tracer
}

// New constructs a Service. Start must be called before use.
func New(opts ...Option) *Service {
	s := &Service{
		defaultWeight:    10,
		persistQueueSize: 16,
		dedupeSize:       4096,
		newID:            uuid.NewString,
		now:              time.Now,
		tracer:           otel.Tracer("github.com/okian/simonev/internal/app"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads persisted state over the school directory and starts the
// persist worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting participation service...")

	schools := s.seedSchools
	if schools == nil {
		var err error
		if schools, err = seed.Load(s.seedPath); err != nil {
			return fmt.Errorf("%w: %w", ErrStart, err)
		}
	}
	initial := model.Snapshot{Schools: schools, Events: []model.Event{}}

	if s.backend == nil {
		s.backend = persistence.NewMemoryBackend()
	}
	stored, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStart, err)
	}
	initial = stored.Apply(initial)

	if s.engine == nil {
		s.engine = scoring.NewEngine()
	}
	if s.summarizer == nil {
		s.summarizer = summary.New(nil)
	}
	if s.dates == nil {
		s.dates = dateparse.New(dateparse.WithClock(clockFunc(s.now)))
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewKeyDeduper(dedupe.WithMaxKeys(s.dedupeSize))
	}

	s.persistQ = queue.NewInMemoryQueue(queue.WithCapacity(s.persistQueueSize))
	s.persister = worker.NewPersistWorker(s.persistQ, s.backend)
	go s.persister.Run(context.WithoutCancel(ctx))

	s.store = repository.NewMemoryStore(initial,
		repository.WithScoringEngine(s.engine),
		repository.WithSaver(s.persistQ),
	)

	s.started = true
	snap := s.store.Snapshot(ctx)
	s.logger.Info(ctx, "participation service started",
		logger.Int("schools", len(snap.Schools)),
		logger.Int("events", len(snap.Events)),
		logger.Bool("restored_schools", stored.HasSchools),
		logger.Bool("restored_events", stored.HasEvents),
	)
	return nil
}

// Stop flushes pending snapshots and closes the backend.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping participation service...")

	var errs []error
	if err := s.persister.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.backend.Close(); err != nil {
		errs = append(errs, err)
	}
	s.started = false
	s.logger.Info(ctx, "participation service stopped")
	return errors.Join(errs...)
}

// Events returns events in creation order.
func (s *Service) Events(ctx context.Context) []model.Event {
	return s.store.Events(ctx)
}

// CreateEvent resolves the date, applies defaults and stores a new event.
// An empty date means today.
func (s *Service) CreateEvent(ctx context.Context, in model.EventInput) (model.Event, error) {
	ctx, span := s.tracer.Start(ctx, "Service.CreateEvent")
	defer span.End()

	if in.Date == "" {
		in.Date = s.now().Format(model.DateLayout)
	} else {
		day, err := s.dates.Day(in.Date)
		if err != nil {
			return model.Event{}, fmt.Errorf("%w: %w", model.ErrInvalidEvent, err)
		}
		in.Date = day
	}

	ev, err := model.NewEvent(s.newID(), in.WithDefaults(s.defaultWeight))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return model.Event{}, err
	}
	span.SetAttributes(attribute.String("event.id", ev.ID))
	return s.store.AddEvent(ctx, ev)
}

// CreateEventOnce is CreateEvent guarded by an idempotency key. A repeated
// key creates nothing and reports duplicate; the event created by the first
// request is returned when it is still known.
func (s *Service) CreateEventOnce(ctx context.Context, key string, in model.EventInput) (model.Event, bool, error) {
	if key == "" {
		ev, err := s.CreateEvent(ctx, in)
		return ev, false, err
	}
	if id, seen := s.deduper.Claim(ctx, key); seen {
		metrics.RecordEventDuplicate()
		ev, _ := s.store.Event(ctx, id)
		return ev, true, nil
	}
	ev, err := s.CreateEvent(ctx, in)
	if err != nil {
		s.deduper.Release(ctx, key)
		return model.Event{}, false, err
	}
	s.deduper.Complete(ctx, key, ev.ID)
	return ev, false, nil
}

// UploadRoster matches the roster lines and credits the schools. An unknown
// event changes nothing and is reported with EventFound false.
func (s *Service) UploadRoster(ctx context.Context, req types.UploadRequest) (types.UploadResult, error) {
	ctx, span := s.tracer.Start(ctx, "Service.UploadRoster")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.id", req.EventID),
		attribute.String("roster.kind", string(req.Kind)),
		attribute.Int("roster.lines", len(req.Lines)),
	)

	schools := s.store.Schools(ctx)
	matched := matching.Match(req.Lines, schools)
	out, err := s.store.Credit(ctx, req.EventID, matched, req.Kind, scoring.Meta{SubmittedAt: req.SubmittedAt})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return types.UploadResult{}, err
	}

	res := types.UploadResult{
		EventFound: out.EventFound,
		Matched:    len(matched),
		Credited:   nonNil(out.Credited),
		Skipped:    nonNil(out.Skipped),
		Unmatched:  []types.UnmatchedLine{},
	}
	if !out.EventFound {
		return res, nil
	}
	for _, line := range matching.Unmatched(req.Lines, schools) {
		res.Unmatched = append(res.Unmatched, types.UnmatchedLine{
			Line:        line,
			Suggestions: nonNil(matching.Suggest(line, schools, suggestionsPerLine)),
		})
	}
	metrics.RecordRosterUpload(string(req.Kind), len(req.Lines), len(res.Unmatched))
	s.logger.Info(ctx, "roster uploaded",
		logger.String("event_id", req.EventID),
		logger.String("kind", string(req.Kind)),
		logger.Int("lines", len(req.Lines)),
		logger.Int("credited", len(res.Credited)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Int("unmatched", len(res.Unmatched)),
	)
	return res, nil
}

// UploadFile extracts roster lines from an uploaded file and uploads them.
func (s *Service) UploadFile(ctx context.Context, eventID string, kind model.DataKind, filename string, data []byte, submittedAt time.Time) (types.UploadResult, error) {
	ex, err := roster.ForFilename(filename)
	if err != nil {
		return types.UploadResult{}, err
	}
	lines, err := ex.Extract(data)
	if err != nil {
		return types.UploadResult{}, err
	}
	return s.UploadRoster(ctx, types.UploadRequest{EventID: eventID, Kind: kind, Lines: lines, SubmittedAt: submittedAt})
}

// Schools returns the filtered schools in directory order with their tiers.
func (s *Service) Schools(ctx context.Context, f model.Filter) []types.SchoolView {
	filtered := ranking.Filter(s.store.Schools(ctx), f)
	out := make([]types.SchoolView, len(filtered))
	for i, sc := range filtered {
		out[i] = types.NewSchoolView(sc)
	}
	return out
}

// Rankings returns the ranked schools. limit <= 0 returns all of them.
func (s *Service) Rankings(ctx context.Context, f model.Filter, limit int) []types.RankingEntry {
	entries := ranking.Entries(s.store.Schools(ctx), f)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

// Tiers counts schools per tier.
func (s *Service) Tiers(ctx context.Context, f model.Filter) types.TierCounts {
	return ranking.TierCounts(s.store.Schools(ctx), f)
}

// Dashboard returns the headline statistics for f.
func (s *Service) Dashboard(ctx context.Context, f model.Filter) types.DashboardStats {
	snap := s.store.Snapshot(ctx)
	return ranking.Dashboard(snap.Schools, snap.Events, f)
}

// Participation returns per-event participation, newest first.
func (s *Service) Participation(ctx context.Context) []types.EventParticipation {
	snap := s.store.Snapshot(ctx)
	return ranking.EventParticipationSummary(snap.Events, snap.Schools)
}

// Summary asks the summary collaborator about the filtered schools.
// It always returns text.
func (s *Service) Summary(ctx context.Context, f model.Filter) string {
	snap := s.store.Snapshot(ctx)
	ranked := ranking.Rank(snap.Schools, f)
	return s.summarizer.Summarize(ctx, summary.Request{
		Top:           ranking.TopN(ranked, ranking.DashboardTopN),
		Bottom:        ranking.BottomN(ranked, ranking.DashboardTopN),
		EventCount:    len(snap.Events),
		CategoryLabel: f.Label(),
	})
}

// TierChart renders the tier distribution of f as PNG.
func (s *Service) TierChart(ctx context.Context, f model.Filter) ([]byte, error) {
	return chart.TierPie(s.Tiers(ctx, f), "Distribusi Tier: "+f.Label())
}

// EventChart renders per-event participation as PNG.
func (s *Service) EventChart(ctx context.Context) ([]byte, error) {
	return chart.EventBars(s.Participation(ctx), "Partisipasi per Kegiatan")
}

// Backup returns the whole state.
func (s *Service) Backup(ctx context.Context) model.Snapshot {
	return s.store.Snapshot(ctx)
}

// Restore replaces the state with the fields present in data.
func (s *Service) Restore(ctx context.Context, data []byte) error {
	p, err := model.ParseSnapshot(data)
	if err != nil {
		metrics.RecordRestore("rejected")
		return err
	}
	return s.store.Restore(ctx, p)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"persistQueueSize": s.persistQueueSize,
		"dedupeSize":       s.dedupeSize,
		"summaryEnabled":   s.summarizer != nil && s.summarizer.Configured(),
	}
	if s.started {
		ctx := context.Background()
		snap := s.store.Snapshot(ctx)
		stats["totalSchools"] = len(snap.Schools)
		stats["totalEvents"] = len(snap.Events)
		stats["persistQueueLength"] = s.persistQ.Len(ctx)
		stats["idempotencyKeys"] = s.deduper.Size()
	}
	return stats
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }
