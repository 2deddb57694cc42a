// Package ranking derives read-only aggregate views from school and event lists.
// Every function is pure and total: empty input yields empty or zero output.
package ranking

import (
	"math"
	"sort"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/types"
)

// DashboardTopN is how many schools the dashboard lists.
const DashboardTopN = 5

// Filter returns the schools passing f, in input order.
func Filter(schools []model.School, f model.Filter) []model.School {
	out := make([]model.School, 0, len(schools))
	for _, s := range schools {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Rank returns the filtered schools sorted by totalScore descending.
// Ties keep input order.
func Rank(schools []model.School, f model.Filter) []model.School {
	out := Filter(schools, f)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	return out
}

// Entries numbers Rank's result from 1.
func Entries(schools []model.School, f model.Filter) []types.RankingEntry {
	ranked := Rank(schools, f)
	out := make([]types.RankingEntry, len(ranked))
	for i, s := range ranked {
		out[i] = types.RankingEntry{Rank: i + 1, SchoolView: types.NewSchoolView(s)}
	}
	return out
}

// TopN is the first n entries of Rank over all schools.
func TopN(schools []model.School, n int) []model.School {
	return head(Rank(schools, model.All), n)
}

// BottomN returns the n lowest scoring schools, lowest first. Ties keep input order.
func BottomN(schools []model.School, n int) []model.School {
	out := Filter(schools, model.All)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore < out[j].TotalScore
	})
	return head(out, n)
}

func head(s []model.School, n int) []model.School {
	if n < 0 {
		n = 0
	}
	if n < len(s) {
		return s[:n]
	}
	return s
}

// TierCounts counts filtered schools per tier. All four tiers are present.
func TierCounts(schools []model.School, f model.Filter) types.TierCounts {
	c := types.NewTierCounts()
	for _, s := range Filter(schools, f) {
		c[types.NewSchoolView(s).Tier]++
	}
	return c
}

// AverageScore is the mean totalScore, or 0 for no schools.
func AverageScore(schools []model.School) float64 {
	if len(schools) == 0 {
		return 0
	}
	var sum float64
	for _, s := range schools {
		sum += s.TotalScore
	}
	return sum / float64(len(schools))
}

// EventParticipationSummary counts credited schools per event and category,
// sorted by date descending. Events on the same date keep input order.
func EventParticipationSummary(events []model.Event, schools []model.School) []types.EventParticipation {
	byEvent := make(map[string]*types.EventParticipation, len(events))
	out := make([]types.EventParticipation, len(events))
	for i, e := range events {
		out[i] = types.EventParticipation{
			EventID: e.ID,
			Name:    e.Name,
			Date:    e.Date,
			Type:    e.Type,
			Weight:  e.Weight,
		}
	}
	for i := range out {
		if _, dup := byEvent[out[i].EventID]; !dup {
			byEvent[out[i].EventID] = &out[i]
		}
	}
	for _, s := range schools {
		seen := make(map[string]struct{}, len(s.ParticipatedEventIDs))
		for _, id := range s.ParticipatedEventIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			p, ok := byEvent[id]
			if !ok {
				continue
			}
			switch s.Type {
			case model.CategorySMAK:
				p.SMAK++
			case model.CategorySMTK:
				p.SMTK++
			}
			p.Total++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Dashboard builds the headline stats for f.
func Dashboard(schools []model.School, events []model.Event, f model.Filter) types.DashboardStats {
	filtered := Filter(schools, f)
	return types.DashboardStats{
		Category:     f.Label(),
		TotalSchools: len(filtered),
		TotalEvents:  len(events),
		AverageScore: int(math.Round(AverageScore(filtered))),
		Tiers:        TierCounts(filtered, model.All),
		Top:          Entries(filtered, model.All)[:min(DashboardTopN, len(filtered))],
	}
}
