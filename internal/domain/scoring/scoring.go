// Package scoring credits matched schools for an event exactly once.
package scoring

import (
	"time"

	"github.com/okian/simonev/internal/domain/matching"
	"github.com/okian/simonev/internal/domain/model"
)

// Default bonus configuration constants.
const (
	DefaultFastBonus   = 5
	DefaultNormalBonus = 2
	DefaultFastWindow  = 3 * 24 * time.Hour
)

// Meta carries upload details the bonus policy may consider.
type Meta struct {
	// SubmittedAt is when the roster was submitted. Zero means unknown.
	SubmittedAt time.Time
}

// BonusPolicy decides the bonus added on top of the event weight.
type BonusPolicy interface {
	Bonus(kind model.DataKind, event model.Event, meta Meta) float64
}

// DeadlinePolicy gives no bonus for attendance, FastBonus for a submission
// received by the end of the event day plus FastWindow, and NormalBonus otherwise.
type DeadlinePolicy struct {
	FastBonus   float64
	NormalBonus float64
	FastWindow  time.Duration
}

// NewDeadlinePolicy returns a DeadlinePolicy with default values.
func NewDeadlinePolicy() DeadlinePolicy {
	return DeadlinePolicy{
		FastBonus:   DefaultFastBonus,
		NormalBonus: DefaultNormalBonus,
		FastWindow:  DefaultFastWindow,
	}
}

// Bonus implements BonusPolicy.
func (p DeadlinePolicy) Bonus(kind model.DataKind, event model.Event, meta Meta) float64 {
	if kind != model.KindSubmission {
		return 0
	}
	if meta.SubmittedAt.IsZero() {
		return p.NormalBonus
	}
	day, err := event.Day()
	if err != nil {
		return p.NormalBonus
	}
	deadline := day.Add(24 * time.Hour).Add(p.FastWindow)
	if !meta.SubmittedAt.After(deadline) {
		return p.FastBonus
	}
	return p.NormalBonus
}

// Outcome describes what a credit pass did.
type Outcome struct {
	EventFound bool
	// Credited lists school ids credited by this pass, in directory order.
	Credited []string
	// Skipped lists matched school ids that were already credited.
	Skipped []string
	// Points is the amount added to each credited school.
	Points float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithBonusPolicy replaces the default DeadlinePolicy.
func WithBonusPolicy(p BonusPolicy) Option {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// Engine applies event weight plus bonus to matched schools.
type Engine struct {
	policy BonusPolicy
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{policy: NewDeadlinePolicy()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Credit returns a new school list where every matched school not yet
// credited for event has the event id appended, its participation count
// incremented and weight plus bonus added to its score. schools is not mutated.
func (e *Engine) Credit(schools []model.School, event model.Event, matched matching.IDSet, kind model.DataKind, meta Meta) ([]model.School, Outcome) {
	out := Outcome{EventFound: true}
	points := event.Weight + e.policy.Bonus(kind, event, meta)
	out.Points = points

	next := make([]model.School, len(schools))
	for i, s := range schools {
		s = s.Clone()
		if matched.Has(s.ID) {
			if s.HasCredited(event.ID) {
				out.Skipped = append(out.Skipped, s.ID)
			} else {
				s.ParticipatedEventIDs = append(s.ParticipatedEventIDs, event.ID)
				s.EventsParticipated++
				s.TotalScore += points
				out.Credited = append(out.Credited, s.ID)
			}
		}
		next[i] = s
	}
	return next, out
}
