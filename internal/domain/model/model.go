// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar date format of Event.Date.
const DateLayout = "2006-01-02"

// School is a participant whose score and participation are tracked.
// JSON names match the stored snapshot format.
type School struct {
	ID                   string   `json:"id"`
	NPSN                 string   `json:"npsn"`
	Name                 string   `json:"name"`
	Type                 Category `json:"type"`
	Status               string   `json:"status,omitempty"`
	Province             string   `json:"province,omitempty"`
	TotalScore           float64  `json:"totalScore"`
	EventsParticipated   int      `json:"eventsParticipated"`
	TotalEventsPossible  int      `json:"totalEventsPossible"`
	ParticipatedEventIDs []string `json:"participatedEventIds"`
}

// HasCredited reports whether the school was already credited for eventID.
func (s School) HasCredited(eventID string) bool {
	return slices.Contains(s.ParticipatedEventIDs, eventID)
}

// Clone returns a copy that shares no slices with s.
func (s School) Clone() School {
	s.ParticipatedEventIDs = slices.Clone(s.ParticipatedEventIDs)
	if s.ParticipatedEventIDs == nil {
		s.ParticipatedEventIDs = []string{}
	}
	return s
}

// Event is an activity schools are credited for. Immutable after creation.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	Type        EventType `json:"type"`
	Weight      float64   `json:"weight"`
	Description string    `json:"description"`
}

// Day parses Date.
func (e Event) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// EventInput is the caller supplied part of an event.
type EventInput struct {
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	Type        EventType `json:"type"`
	Weight      *float64  `json:"weight,omitempty"`
	Description string    `json:"description"`
}

// WithDefaults fills an empty type with Socialization and a missing weight with weight.
func (in EventInput) WithDefaults(weight float64) EventInput {
	if in.Type == "" {
		in.Type = EventSocialization
	}
	if in.Weight == nil {
		w := weight
		in.Weight = &w
	}
	return in
}

// Validate checks name, date, type and weight.
func (in EventInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidEvent)
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidEvent, in.Date)
	}
	if _, err := ParseEventType(string(in.Type)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if in.Weight == nil {
		return fmt.Errorf("%w: weight is required", ErrInvalidEvent)
	}
	if w := *in.Weight; math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return fmt.Errorf("%w: weight must be a non-negative number", ErrInvalidEvent)
	}
	return nil
}

// NewEvent validates in and assigns id.
func NewEvent(id string, in EventInput) (Event, error) {
	if id == "" {
		return Event{}, fmt.Errorf("%w: id must not be empty", ErrInvalidEvent)
	}
	if err := in.Validate(); err != nil {
		return Event{}, err
	}
	t, _ := ParseEventType(string(in.Type))
	return Event{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Date:        in.Date,
		Type:        t,
		Weight:      *in.Weight,
		Description: in.Description,
	}, nil
}
