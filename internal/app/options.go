package service

import (
	"time"

	"github.com/okian/simonev/internal/adapters/dateparse"
	"github.com/okian/simonev/internal/adapters/persistence"
	"github.com/okian/simonev/internal/adapters/summary"
	"github.com/okian/simonev/internal/domain/dedupe"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/scoring"
	"github.com/okian/simonev/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBackend sets where snapshots are loaded from and saved to.
func WithBackend(b persistence.Backend) Option {
	return func(s *Service) { s.backend = b }
}

// WithSchools replaces the school directory.
func WithSchools(schools []model.School) Option {
	return func(s *Service) { s.seedSchools = schools }
}

// WithSeedPath loads the school directory from a YAML file.
func WithSeedPath(path string) Option {
	return func(s *Service) { s.seedPath = path }
}

// WithBonusPolicy configures the submission bonus.
func WithBonusPolicy(p scoring.BonusPolicy) Option {
	return func(s *Service) {
		if p != nil {
			s.engine = scoring.NewEngine(scoring.WithBonusPolicy(p))
		}
	}
}

// WithSummarizer sets the summary collaborator.
func WithSummarizer(sum *summary.Summarizer) Option {
	return func(s *Service) { s.summarizer = sum }
}

// WithDateParser sets the event date parser.
func WithDateParser(p *dateparse.Parser) Option {
	return func(s *Service) { s.dates = p }
}

// WithDeduper sets the idempotency key store.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Service) { s.deduper = d }
}

// WithDefaultEventWeight sets the weight of events created without one.
func WithDefaultEventWeight(w float64) Option {
	return func(s *Service) {
		if w >= 0 {
			s.defaultWeight = w
		}
	}
}

// WithPersistQueueSize bounds the persist queue.
func WithPersistQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.persistQueueSize = n
		}
	}
}

// WithDedupeSize bounds the number of remembered idempotency keys.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithIDGenerator overrides event id generation.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) {
		if f != nil {
			s.newID = f
		}
	}
}

// WithClock overrides the current time used for default and relative dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
