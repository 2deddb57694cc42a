package scoring_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/simonev/internal/domain/matching"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func directory() []model.School {
	return []model.School{
		{ID: "1", Name: "SMAK Alpha", Type: model.CategorySMAK, TotalEventsPossible: 1, ParticipatedEventIDs: []string{}},
		{ID: "2", Name: "SMTK Beta", Type: model.CategorySMTK, TotalEventsPossible: 1, ParticipatedEventIDs: []string{}},
		{ID: "3", Name: "SMAK Gamma", Type: model.CategorySMAK, TotalEventsPossible: 1, ParticipatedEventIDs: []string{}},
	}
}

func TestDeadlinePolicy(t *testing.T) {
	convey.Convey("Given the default deadline policy", t, func() {
		p := scoring.NewDeadlinePolicy()
		ev := model.Event{ID: "e1", Date: "2025-03-10", Weight: 10}

		convey.Convey("When the roster is attendance", func() {
			convey.So(p.Bonus(model.KindAttendance, ev, scoring.Meta{SubmittedAt: time.Now()}), convey.ShouldEqual, 0)
		})

		convey.Convey("When a submission arrives on the last fast instant", func() {
			at := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
			convey.So(p.Bonus(model.KindSubmission, ev, scoring.Meta{SubmittedAt: at}), convey.ShouldEqual, 5)
		})

		convey.Convey("When a submission arrives after the window", func() {
			at := time.Date(2025, 3, 14, 0, 0, 1, 0, time.UTC)
			convey.So(p.Bonus(model.KindSubmission, ev, scoring.Meta{SubmittedAt: at}), convey.ShouldEqual, 2)
		})

		convey.Convey("When the submission time is unknown", func() {
			convey.So(p.Bonus(model.KindSubmission, ev, scoring.Meta{}), convey.ShouldEqual, 2)
		})

		convey.Convey("When the event date cannot be parsed", func() {
			bad := model.Event{ID: "e2", Date: "soon"}
			convey.So(p.Bonus(model.KindSubmission, bad, scoring.Meta{SubmittedAt: time.Now()}), convey.ShouldEqual, 2)
		})
	})
}

func TestCredit(t *testing.T) {
	convey.Convey("Given an attendance roster matching two schools", t, func() {
		engine := scoring.NewEngine()
		schools := directory()
		before := directory()
		ev := model.Event{ID: "e1", Name: "Sosialisasi A", Date: "2025-01-10", Type: model.EventSocialization, Weight: 10}
		matched := matching.IDSet{"1": {}, "2": {}}

		convey.Convey("When credited once", func() {
			next, out := engine.Credit(schools, ev, matched, model.KindAttendance, scoring.Meta{})

			convey.Convey("Then matched schools gain the weight and the event id", func() {
				convey.So(out.EventFound, convey.ShouldBeTrue)
				convey.So(out.Credited, convey.ShouldResemble, []string{"1", "2"})
				convey.So(out.Skipped, convey.ShouldBeEmpty)
				convey.So(next[0].TotalScore, convey.ShouldEqual, 10)
				convey.So(next[0].EventsParticipated, convey.ShouldEqual, 1)
				convey.So(next[0].ParticipatedEventIDs, convey.ShouldResemble, []string{"e1"})
				convey.So(next[2].TotalScore, convey.ShouldEqual, 0)
				convey.So(next[2].EventsParticipated, convey.ShouldEqual, 0)
			})

			convey.Convey("And the input slice is not mutated", func() {
				convey.So(cmp.Diff(before, schools), convey.ShouldBeEmpty)
			})

			convey.Convey("And crediting again is a no-op", func() {
				again, out2 := engine.Credit(next, ev, matched, model.KindAttendance, scoring.Meta{})
				convey.So(out2.Credited, convey.ShouldBeEmpty)
				convey.So(out2.Skipped, convey.ShouldResemble, []string{"1", "2"})
				convey.So(cmp.Diff(next, again), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the roster is a fast submission", func() {
			meta := scoring.Meta{SubmittedAt: time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)}
			next, out := engine.Credit(schools, ev, matched, model.KindSubmission, meta)

			convey.Convey("Then weight plus the fast bonus is added", func() {
				convey.So(out.Points, convey.ShouldEqual, 15)
				convey.So(next[1].TotalScore, convey.ShouldEqual, 15)
			})
		})

		convey.Convey("When a custom bonus policy is configured", func() {
			e := scoring.NewEngine(scoring.WithBonusPolicy(fixedBonus(1)))
			next, _ := e.Credit(schools, ev, matched, model.KindAttendance, scoring.Meta{})

			convey.Convey("Then it is used", func() {
				convey.So(next[0].TotalScore, convey.ShouldEqual, 11)
			})
		})

		convey.Convey("When nothing matched", func() {
			next, out := engine.Credit(schools, ev, matching.IDSet{}, model.KindAttendance, scoring.Meta{})

			convey.Convey("Then the result equals the input", func() {
				convey.So(out.Credited, convey.ShouldBeEmpty)
				convey.So(cmp.Diff(schools, next), convey.ShouldBeEmpty)
			})
		})
	})
}

type fixedBonus float64

func (f fixedBonus) Bonus(model.DataKind, model.Event, scoring.Meta) float64 { return float64(f) }
