package ctl

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/types"
)

// Constants for event generation ranges.
const (
	minWeight      = 5
	maxWeight      = 20
	eventSpanDays  = 30
	lineStyleCount = 4
)

var eventPrefixes = map[model.EventType][]string{
	model.EventSocialization: {"Sosialisasi", "Bimtek", "Webinar"},
	model.EventDataRequest:   {"Permintaan Data", "Pendataan"},
	model.EventResponse:      {"Tanggapan", "Survei"},
}

var eventTypes = []model.EventType{model.EventSocialization, model.EventDataRequest, model.EventResponse}

// Generator produces demo events and rosters from a seeded faker, so a
// seed reproduces the same run.
type Generator struct {
	faker *gofakeit.Faker
	seed  uint64
	now   time.Time
}

// NewGenerator creates a generator. A zero seed is taken from the clock.
func NewGenerator(seed uint64, now time.Time) *Generator {
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	return &Generator{faker: gofakeit.New(seed), seed: seed, now: now}
}

// Seed is the seed in use.
func (g *Generator) Seed() uint64 { return g.seed }

// Event generates an event dated within the last month.
func (g *Generator) Event() model.EventInput {
	t := eventTypes[g.faker.Number(0, len(eventTypes)-1)]
	name := fmt.Sprintf("%s %s %s", g.faker.RandomString(eventPrefixes[t]), g.faker.BuzzWord(), g.faker.City())
	day := g.faker.DateRange(g.now.AddDate(0, 0, -eventSpanDays), g.now)
	w := float64(g.faker.Number(minWeight, maxWeight))
	return model.EventInput{
		Name:        name,
		Date:        day.Format(model.DateLayout),
		Type:        t,
		Weight:      &w,
		Description: g.faker.Sentence(8),
	}
}

// Roster names size schools picked from schools, each written the way
// an operator might paste it, plus noise lines naming no known school.
func (g *Generator) Roster(schools []types.SchoolView, size, noise int) types.RosterUpload {
	names := make([]string, len(schools))
	for i, s := range schools {
		names[i] = s.Name
	}
	g.faker.ShuffleStrings(names)
	if size > len(names) {
		size = len(names)
	}

	lines := make([]string, 0, size+noise)
	for i, n := range names[:size] {
		lines = append(lines, g.styleLine(i+1, n))
	}
	for range noise {
		lines = append(lines, "Yayasan "+g.faker.Company())
	}
	g.faker.ShuffleStrings(lines)

	kind := model.KindAttendance
	if g.faker.Bool() {
		kind = model.KindSubmission
	}
	return types.RosterUpload{Kind: string(kind), Lines: lines}
}

func (g *Generator) styleLine(n int, name string) string {
	switch g.faker.Number(0, lineStyleCount-1) {
	case 0:
		return fmt.Sprintf("%d. %s", n, name)
	case 1:
		return strings.ToUpper(name)
	case 2:
		return fmt.Sprintf("%s - %s", name, g.faker.Name())
	default:
		return name
	}
}
