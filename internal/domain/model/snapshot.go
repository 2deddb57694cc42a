package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"
)

// Snapshot is the complete persisted state.
type Snapshot struct {
	Schools []School `json:"schools"`
	Events  []Event  `json:"events"`
}

// Clone deep copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Schools: make([]School, len(s.Schools)),
		Events:  slices.Clone(s.Events),
	}
	for i, sc := range s.Schools {
		out.Schools[i] = sc.Clone()
	}
	if out.Events == nil {
		out.Events = []Event{}
	}
	return out
}

// PartialSnapshot is a restore payload. Only the present fields replace state.
type PartialSnapshot struct {
	Schools    []School
	Events     []Event
	HasSchools bool
	HasEvents  bool
}

// Apply replaces the present fields of base and returns the result.
func (p PartialSnapshot) Apply(base Snapshot) Snapshot {
	out := base.Clone()
	if p.HasSchools {
		out.Schools = make([]School, len(p.Schools))
		for i, s := range p.Schools {
			out.Schools[i] = s.Clone()
		}
	}
	if p.HasEvents {
		out.Events = slices.Clone(p.Events)
		if out.Events == nil {
			out.Events = []Event{}
		}
	}
	return out
}

// ParseSnapshot decodes a backup document. Either field may be missing but not both.
// Derived counters are taken as-is; only shape checks and migration run.
func ParseSnapshot(data []byte) (PartialSnapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return PartialSnapshot{}, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	var p PartialSnapshot
	if msg, ok := raw["schools"]; ok && !isNull(msg) {
		if err := json.Unmarshal(msg, &p.Schools); err != nil {
			return PartialSnapshot{}, fmt.Errorf("%w: schools: %w", ErrMalformedSnapshot, err)
		}
		p.HasSchools = true
	}
	if msg, ok := raw["events"]; ok && !isNull(msg) {
		if err := json.Unmarshal(msg, &p.Events); err != nil {
			return PartialSnapshot{}, fmt.Errorf("%w: events: %w", ErrMalformedSnapshot, err)
		}
		p.HasEvents = true
	}
	if !p.HasSchools && !p.HasEvents {
		return PartialSnapshot{}, fmt.Errorf("%w: neither schools nor events present", ErrMalformedSnapshot)
	}

	for i := range p.Schools {
		if err := checkSchool(p.Schools[i]); err != nil {
			return PartialSnapshot{}, fmt.Errorf("%w: schools[%d]: %w", ErrMalformedSnapshot, i, err)
		}
	}
	for i := range p.Events {
		if err := checkEvent(p.Events[i]); err != nil {
			return PartialSnapshot{}, fmt.Errorf("%w: events[%d]: %w", ErrMalformedSnapshot, i, err)
		}
	}
	p.Schools = Migrate(p.Schools)
	return p, nil
}

// Migrate normalizes schools read from older snapshots.
func Migrate(schools []School) []School {
	for i := range schools {
		if schools[i].ParticipatedEventIDs == nil {
			schools[i].ParticipatedEventIDs = []string{}
		}
		if schools[i].NPSN == "" {
			schools[i].NPSN = schools[i].ID
		}
	}
	return schools
}

func checkSchool(s School) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("id must not be empty")
	case !s.Type.Valid():
		return fmt.Errorf("%w: %q", ErrUnknownCategory, s.Type)
	case s.TotalScore < 0 || math.IsNaN(s.TotalScore) || math.IsInf(s.TotalScore, 0):
		return fmt.Errorf("totalScore must be a non-negative number")
	case s.EventsParticipated < 0 || s.TotalEventsPossible < 0:
		return fmt.Errorf("counters must not be negative")
	}
	return nil
}

func checkEvent(e Event) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("id must not be empty")
	case math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0):
		return fmt.Errorf("weight must be finite")
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("event %q: date %q is not %s", e.ID, e.Date, DateLayout)
	}
	return nil
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}
