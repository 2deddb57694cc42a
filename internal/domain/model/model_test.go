package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func weight(w float64) *float64 { return &w }

func TestEventInput(t *testing.T) {
	convey.Convey("Given an event input", t, func() {
		in := model.EventInput{Name: "Sosialisasi A", Date: "2025-01-10"}

		convey.Convey("When defaults are applied", func() {
			in = in.WithDefaults(10)

			convey.Convey("Then type and weight are filled", func() {
				convey.So(in.Type, convey.ShouldEqual, model.EventSocialization)
				convey.So(*in.Weight, convey.ShouldEqual, 10)
			})

			convey.Convey("And NewEvent keeps the supplied id", func() {
				ev, err := model.NewEvent("e1", in)
				convey.So(err, convey.ShouldBeNil)
				convey.So(ev.ID, convey.ShouldEqual, "e1")
				convey.So(ev.Weight, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When an explicit weight of zero is given", func() {
			in.Weight = weight(0)
			in = in.WithDefaults(10)

			convey.Convey("Then it is kept", func() {
				convey.So(*in.Weight, convey.ShouldEqual, 0)
				convey.So(in.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the input is invalid", func() {
			bad := []model.EventInput{
				{Name: " ", Date: "2025-01-10", Type: model.EventResponse, Weight: weight(1)},
				{Name: "x", Date: "10/01/2025", Type: model.EventResponse, Weight: weight(1)},
				{Name: "x", Date: "2025-01-10", Type: "Party", Weight: weight(1)},
				{Name: "x", Date: "2025-01-10", Type: model.EventResponse, Weight: weight(-1)},
				{Name: "x", Date: "2025-01-10", Type: model.EventResponse, Weight: weight(math.NaN())},
				{Name: "x", Date: "2025-01-10", Type: model.EventResponse},
			}

			convey.Convey("Then every case wraps ErrInvalidEvent", func() {
				for _, b := range bad {
					_, err := model.NewEvent("e1", b)
					convey.So(errors.Is(err, model.ErrInvalidEvent), convey.ShouldBeTrue)
				}
			})
		})
	})
}

func TestKinds(t *testing.T) {
	convey.Convey("Given category, type and kind parsers", t, func() {
		c, err := model.ParseCategory("smtk")
		convey.So(err, convey.ShouldBeNil)
		convey.So(c, convey.ShouldEqual, model.CategorySMTK)

		_, err = model.ParseCategory("SMA")
		convey.So(errors.Is(err, model.ErrUnknownCategory), convey.ShouldBeTrue)

		f, err := model.ParseFilter("ALL")
		convey.So(err, convey.ShouldBeNil)
		convey.So(f, convey.ShouldResemble, model.All)
		convey.So(f.Match(model.School{Type: model.CategorySMAK}), convey.ShouldBeTrue)

		f, _ = model.ParseFilter("SMAK")
		convey.So(f.Match(model.School{Type: model.CategorySMTK}), convey.ShouldBeFalse)
		convey.So(f.Label(), convey.ShouldEqual, "SMAK")

		k, err := model.ParseDataKind("submission")
		convey.So(err, convey.ShouldBeNil)
		convey.So(k, convey.ShouldEqual, model.KindSubmission)

		et, err := model.ParseEventType("datarequest")
		convey.So(err, convey.ShouldBeNil)
		convey.So(et, convey.ShouldEqual, model.EventDataRequest)
	})
}

func TestParseSnapshot(t *testing.T) {
	convey.Convey("Given a backup document", t, func() {
		convey.Convey("When only schools are present and ids are missing", func() {
			p, err := model.ParseSnapshot([]byte(`{"schools":[{"id":"101","name":"SMAK 1","type":"SMAK","totalScore":12,"eventsParticipated":1,"totalEventsPossible":2}]}`))

			convey.Convey("Then events are left alone and participatedEventIds is migrated", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.HasSchools, convey.ShouldBeTrue)
				convey.So(p.HasEvents, convey.ShouldBeFalse)
				convey.So(p.Schools[0].ParticipatedEventIDs, convey.ShouldNotBeNil)
				convey.So(p.Schools[0].ParticipatedEventIDs, convey.ShouldBeEmpty)
				convey.So(p.Schools[0].NPSN, convey.ShouldEqual, "101")
			})

			convey.Convey("And Apply replaces only schools", func() {
				base := model.Snapshot{
					Schools: []model.School{{ID: "old", Type: model.CategorySMTK}},
					Events:  []model.Event{{ID: "e1", Name: "A"}},
				}
				out := p.Apply(base)
				convey.So(out.Events, convey.ShouldResemble, base.Events)
				convey.So(len(out.Schools), convey.ShouldEqual, 1)
				convey.So(out.Schools[0].ID, convey.ShouldEqual, "101")
				convey.So(out.Schools[0].TotalScore, convey.ShouldEqual, 12)
			})
		})

		convey.Convey("When only events are present", func() {
			p, err := model.ParseSnapshot([]byte(`{"events":[{"id":"e9","name":"B","date":"2025-02-01","type":"Response","weight":5}]}`))

			convey.Convey("Then schools are left alone", func() {
				convey.So(err, convey.ShouldBeNil)
				base := model.Snapshot{Schools: []model.School{{ID: "1", Type: model.CategorySMAK, ParticipatedEventIDs: []string{}}}}
				out := p.Apply(base)
				diff := cmp.Diff(base.Schools, out.Schools)
				convey.So(diff, convey.ShouldBeEmpty)
				convey.So(out.Events[0].ID, convey.ShouldEqual, "e9")
			})
		})

		convey.Convey("When the document is malformed", func() {
			docs := []string{
				`not json`,
				`{}`,
				`{"schools":null,"events":null}`,
				`{"schools":"x"}`,
				`{"schools":[{"id":"","type":"SMAK"}]}`,
				`{"schools":[{"id":"1","type":"SMA"}]}`,
				`{"schools":[{"id":"1","type":"SMAK","eventsParticipated":-1}]}`,
				`{"events":[{"id":""}]}`,
				`{"events":[{"id":"e1","name":"A","date":"2025-1-5","type":"Response","weight":5}]}`,
				`{"events":[{"id":"e1","name":"A","date":"2025-02-30","type":"Response","weight":5}]}`,
				`{"events":[{"id":"e1","name":"A","type":"Response","weight":5}]}`,
			}

			convey.Convey("Then every case wraps ErrMalformedSnapshot", func() {
				for _, d := range docs {
					_, err := model.ParseSnapshot([]byte(d))
					convey.So(errors.Is(err, model.ErrMalformedSnapshot), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When derived counters are inconsistent", func() {
			_, err := model.ParseSnapshot([]byte(`{"schools":[{"id":"1","type":"SMAK","eventsParticipated":3,"totalEventsPossible":1,"participatedEventIds":["a","a"]}]}`))

			convey.Convey("Then the snapshot is still accepted", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestSchoolClone(t *testing.T) {
	convey.Convey("Given a school with credited events", t, func() {
		s := model.School{ID: "1", ParticipatedEventIDs: []string{"e1"}}

		convey.Convey("When it is cloned and the clone is mutated", func() {
			c := s.Clone()
			c.ParticipatedEventIDs[0] = "zz"

			convey.Convey("Then the original is untouched", func() {
				convey.So(s.HasCredited("e1"), convey.ShouldBeTrue)
				convey.So(c.HasCredited("e1"), convey.ShouldBeFalse)
			})
		})
	})
}
