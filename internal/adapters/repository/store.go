// Package repository holds the canonical school and event lists.
package repository

import (
	"context"

	"github.com/okian/simonev/internal/domain/matching"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/scoring"
)

// Store provides read/write access to the participation state.
// Writers are serialized; readers always observe a complete snapshot.
type Store interface {
	// Snapshot returns a copy of the whole state.
	Snapshot(ctx context.Context) model.Snapshot
	// Schools returns the schools in directory order.
	Schools(ctx context.Context) []model.School
	// Events returns the events in creation order.
	Events(ctx context.Context) []model.Event
	// Event returns one event or ErrEventNotFound.
	Event(ctx context.Context, id string) (model.Event, error)

	// AddEvent appends ev and increments every school's totalEventsPossible.
	AddEvent(ctx context.Context, ev model.Event) (model.Event, error)
	// Credit scores matched schools for eventID. An unknown event changes
	// nothing and reports Outcome.EventFound == false.
	Credit(ctx context.Context, eventID string, matched matching.IDSet, kind model.DataKind, meta scoring.Meta) (scoring.Outcome, error)
	// Restore replaces the fields present in p wholesale.
	Restore(ctx context.Context, p model.PartialSnapshot) error
}

// Saver is told about every new state. It must not block for long; a
// queueing saver is expected.
type Saver interface {
	Save(ctx context.Context, snap model.Snapshot) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, snap model.Snapshot) error

// Save implements Saver.
func (f SaverFunc) Save(ctx context.Context, snap model.Snapshot) error { return f(ctx, snap) }
