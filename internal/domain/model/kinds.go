package model

import (
	"fmt"
	"strings"
)

// Category is a school category.
type Category string

// Known categories.
const (
	CategorySMAK Category = "SMAK"
	CategorySMTK Category = "SMTK"
)

// Categories lists every category in display order.
func Categories() []Category { return []Category{CategorySMAK, CategorySMTK} }

// ParseCategory parses a category case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(CategorySMAK):
		return CategorySMAK, nil
	case string(CategorySMTK):
		return CategorySMTK, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool { return c == CategorySMAK || c == CategorySMTK }

// Filter selects schools by category. The zero value selects all schools.
type Filter struct {
	Category Category
}

// All is the no-op filter.
var All = Filter{}

// ParseFilter accepts a category, "ALL" or the empty string.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return All, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return All, err
	}
	return Filter{Category: c}, nil
}

// Match reports whether the school passes the filter.
func (f Filter) Match(s School) bool {
	return f.Category == "" || s.Type == f.Category
}

// Label is the human readable scope of the filter.
func (f Filter) Label() string {
	if f.Category == "" {
		return "Semua Sekolah (SMAK & SMTK)"
	}
	return string(f.Category)
}

// EventType classifies an event.
type EventType string

// Known event types.
const (
	EventSocialization EventType = "Socialization"
	EventDataRequest   EventType = "DataRequest"
	EventResponse      EventType = "Response"
)

// ParseEventType parses an event type case-insensitively.
func ParseEventType(s string) (EventType, error) {
	for _, t := range []EventType{EventSocialization, EventDataRequest, EventResponse} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
}

// DataKind says what an uploaded roster represents.
type DataKind string

// Known data kinds.
const (
	KindAttendance DataKind = "Attendance"
	KindSubmission DataKind = "Submission"
)

// ParseDataKind parses a data kind case-insensitively.
func ParseDataKind(s string) (DataKind, error) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(KindAttendance)):
		return KindAttendance, nil
	case strings.EqualFold(strings.TrimSpace(s), string(KindSubmission)):
		return KindSubmission, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataKind, s)
}
