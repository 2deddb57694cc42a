// Package matching decides which schools a raw roster refers to.
//
// A school matches when any roster line, lowercased, contains the school's
// lowercased id or lowercased name as a substring. There is no tokenization
// or punctuation handling.
package matching

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/okian/simonev/internal/domain/model"
)

// IDSet is a set of school ids.
type IDSet map[string]struct{}

// Has reports membership.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// ParseRoster splits text on newlines, trims each line and drops empty ones.
func ParseRoster(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type keys struct {
	id   string
	name string
}

func keysOf(s model.School) keys {
	return keys{
		id:   strings.ToLower(strings.TrimSpace(s.ID)),
		name: strings.ToLower(strings.TrimSpace(s.Name)),
	}
}

// matches reports whether line (already lowercased) names the school.
// Empty keys never match.
func (k keys) matches(line string) bool {
	return (k.id != "" && strings.Contains(line, k.id)) ||
		(k.name != "" && strings.Contains(line, k.name))
}

func lower(roster []string) []string {
	out := make([]string, len(roster))
	for i, l := range roster {
		out[i] = strings.ToLower(l)
	}
	return out
}

// Match returns the ids of schools named by at least one roster line.
func Match(roster []string, schools []model.School) IDSet {
	lines := lower(roster)
	out := make(IDSet)
	for _, s := range schools {
		k := keysOf(s)
		for _, l := range lines {
			if k.matches(l) {
				out[s.ID] = struct{}{}
				break
			}
		}
	}
	return out
}

// Unmatched returns roster lines that name no school, in roster order.
func Unmatched(roster []string, schools []model.School) []string {
	ks := make([]keys, len(schools))
	for i, s := range schools {
		ks[i] = keysOf(s)
	}
	var out []string
	for _, line := range roster {
		l := strings.ToLower(line)
		found := false
		for _, k := range ks {
			if k.matches(l) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, line)
		}
	}
	return out
}

// Suggest returns up to n school names that fuzzily resemble line, closest first.
// Suggestions are informational and never credit a school.
func Suggest(line string, schools []model.School, n int) []string {
	if n <= 0 || strings.TrimSpace(line) == "" {
		return nil
	}
	names := make([]string, 0, len(schools))
	for _, s := range schools {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(strings.TrimSpace(line), names)
	if len(ranks) == 0 {
		// A roster line usually carries more than the name, so also try the
		// name against the line.
		for _, name := range names {
			if fuzzy.MatchNormalizedFold(name, line) {
				ranks = append(ranks, fuzzy.Rank{Source: line, Target: name, Distance: fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(line))})
			}
		}
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})
	out := make([]string, 0, n)
	for _, r := range ranks {
		if len(out) == n {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
