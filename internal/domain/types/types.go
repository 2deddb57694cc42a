// Package types contains read-only view shapes shared by the API and the CLI.
package types

import (
	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/tier"
)

// SchoolView is a school with its derived tier.
type SchoolView struct {
	model.School
	Tier  tier.Tier `json:"tier"`
	Ratio float64   `json:"participationRatio"`
}

// NewSchoolView derives the tier of s.
func NewSchoolView(s model.School) SchoolView {
	return SchoolView{
		School: s,
		Tier:   tier.Classify(s.EventsParticipated, s.TotalEventsPossible),
		Ratio:  tier.Ratio(s.EventsParticipated, s.TotalEventsPossible),
	}
}

// RankingEntry is a ranked school. Rank starts at 1.
type RankingEntry struct {
	Rank int `json:"rank"`
	SchoolView
}

// TierCounts maps every tier to the number of schools in it.
type TierCounts map[tier.Tier]int

// NewTierCounts returns counts with every tier present at zero.
func NewTierCounts() TierCounts {
	c := make(TierCounts, len(tier.All()))
	for _, t := range tier.All() {
		c[t] = 0
	}
	return c
}

// DashboardStats is the headline view of one category filter.
type DashboardStats struct {
	Category     string         `json:"category"`
	TotalSchools int            `json:"totalSchools"`
	TotalEvents  int            `json:"totalEvents"`
	AverageScore int            `json:"averageScore"`
	Tiers        TierCounts     `json:"tiers"`
	Top          []RankingEntry `json:"top"`
}

// EventParticipation counts the schools credited for one event.
type EventParticipation struct {
	EventID string          `json:"eventId"`
	Name    string          `json:"name"`
	Date    string          `json:"date"`
	Type    model.EventType `json:"type"`
	Weight  float64         `json:"weight"`
	SMAK    int             `json:"smak"`
	SMTK    int             `json:"smtk"`
	Total   int             `json:"total"`
}
