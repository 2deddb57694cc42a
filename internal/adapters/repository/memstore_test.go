package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/simonev/internal/adapters/repository"
	"github.com/okian/simonev/internal/domain/matching"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/scoring"
	"github.com/okian/simonev/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func seed() model.Snapshot {
	return model.Snapshot{
		Schools: []model.School{
			{ID: "1001", Name: "SMAK Alpha", Type: model.CategorySMAK},
			{ID: "1002", Name: "SMTK Beta", Type: model.CategorySMTK},
			{ID: "1003", Name: "SMAK Gamma", Type: model.CategorySMAK},
		},
	}
}

type recordingSaver struct {
	mu    sync.Mutex
	snaps []model.Snapshot
	err   error
}

func (r *recordingSaver) Save(_ context.Context, s model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
	return r.err
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func TestMemoryStore(t *testing.T) {
	_ = logger.Init()
	ctx := context.Background()

	Convey("Given a store seeded with three schools", t, func() {
		saver := &recordingSaver{}
		store := repository.NewMemoryStore(seed(), repository.WithSaver(saver))

		Convey("Then seeded schools get an empty credit list", func() {
			s := store.Schools(ctx)
			So(s[0].ParticipatedEventIDs, ShouldNotBeNil)
			So(s[0].NPSN, ShouldEqual, "1001")
			So(store.Events(ctx), ShouldBeEmpty)
		})

		Convey("When an event is created", func() {
			ev := model.Event{ID: "e1", Name: "Sosialisasi A", Date: "2025-01-10", Type: model.EventSocialization, Weight: 10}
			_, err := store.AddEvent(ctx, ev)

			Convey("Then every school's denominator grows by one", func() {
				So(err, ShouldBeNil)
				for _, s := range store.Schools(ctx) {
					So(s.TotalEventsPossible, ShouldEqual, 1)
				}
				So(saver.count(), ShouldEqual, 1)
			})

			Convey("And a second event grows it again", func() {
				_, err := store.AddEvent(ctx, model.Event{ID: "e2", Name: "B", Date: "2025-01-11", Weight: 1})
				So(err, ShouldBeNil)
				So(store.Schools(ctx)[2].TotalEventsPossible, ShouldEqual, 2)
			})

			Convey("And reusing the id is rejected", func() {
				_, err := store.AddEvent(ctx, ev)
				So(errors.Is(err, repository.ErrDuplicateEvent), ShouldBeTrue)
			})

			Convey("And the Sosialisasi A attendance roster credits once", func() {
				roster := matching.ParseRoster("SMAK Alpha\n1002\nunknown school")
				matched := matching.Match(roster, store.Schools(ctx))
				out, err := store.Credit(ctx, "e1", matched, model.KindAttendance, scoring.Meta{})

				So(err, ShouldBeNil)
				So(out.EventFound, ShouldBeTrue)
				So(out.Credited, ShouldResemble, []string{"1001", "1002"})

				s := store.Schools(ctx)
				So(s[0].TotalScore, ShouldEqual, 10)
				So(s[0].EventsParticipated, ShouldEqual, 1)
				So(s[0].ParticipatedEventIDs, ShouldResemble, []string{"e1"})
				So(s[2].TotalScore, ShouldEqual, 0)

				Convey("And re-uploading the same roster changes nothing", func() {
					before := store.Snapshot(ctx)
					saves := saver.count()
					out, err := store.Credit(ctx, "e1", matched, model.KindAttendance, scoring.Meta{})
					So(err, ShouldBeNil)
					So(out.Credited, ShouldBeEmpty)
					So(out.Skipped, ShouldResemble, []string{"1001", "1002"})
					So(cmp.Diff(before, store.Snapshot(ctx)), ShouldBeEmpty)
					So(saver.count(), ShouldEqual, saves)
				})
			})
		})

		Convey("When crediting an unknown event", func() {
			before := store.Snapshot(ctx)
			out, err := store.Credit(ctx, "nope", matching.IDSet{"1001": {}}, model.KindAttendance, scoring.Meta{})

			Convey("Then nothing changes and no error is returned", func() {
				So(err, ShouldBeNil)
				So(out.EventFound, ShouldBeFalse)
				So(cmp.Diff(before, store.Snapshot(ctx)), ShouldBeEmpty)
			})
		})

		Convey("When looking up events", func() {
			_, err := store.Event(ctx, "missing")
			So(errors.Is(err, repository.ErrEventNotFound), ShouldBeTrue)
		})

		Convey("When a snapshot is mutated by the caller", func() {
			snap := store.Snapshot(ctx)
			snap.Schools[0].TotalScore = 999

			Convey("Then the store is unaffected", func() {
				So(store.Schools(ctx)[0].TotalScore, ShouldEqual, 0)
			})
		})

		Convey("When only events are restored", func() {
			_, _ = store.AddEvent(ctx, model.Event{ID: "e1", Name: "A", Date: "2025-01-10", Weight: 10})
			schoolsBefore := store.Schools(ctx)
			p, err := model.ParseSnapshot([]byte(`{"events":[{"id":"x1","name":"X","date":"2024-12-01","type":"Response","weight":3}]}`))
			So(err, ShouldBeNil)
			So(store.Restore(ctx, p), ShouldBeNil)

			Convey("Then schools are untouched and events replaced", func() {
				So(cmp.Diff(schoolsBefore, store.Schools(ctx)), ShouldBeEmpty)
				So(len(store.Events(ctx)), ShouldEqual, 1)
				So(store.Events(ctx)[0].ID, ShouldEqual, "x1")
			})
		})

		Convey("When only schools are restored", func() {
			_, _ = store.AddEvent(ctx, model.Event{ID: "e1", Name: "A", Date: "2025-01-10", Weight: 10})
			p, err := model.ParseSnapshot([]byte(`{"schools":[{"id":"9","name":"SMAK Z","type":"SMAK","totalScore":40,"eventsParticipated":2,"totalEventsPossible":2}]}`))
			So(err, ShouldBeNil)
			So(store.Restore(ctx, p), ShouldBeNil)

			Convey("Then events are untouched and counters are taken verbatim", func() {
				So(store.Events(ctx)[0].ID, ShouldEqual, "e1")
				s := store.Schools(ctx)
				So(len(s), ShouldEqual, 1)
				So(s[0].TotalScore, ShouldEqual, 40)
				So(s[0].ParticipatedEventIDs, ShouldBeEmpty)
			})
		})

		Convey("When an empty restore is attempted", func() {
			err := store.Restore(ctx, model.PartialSnapshot{})

			Convey("Then it is rejected as malformed", func() {
				So(errors.Is(err, model.ErrMalformedSnapshot), ShouldBeTrue)
			})
		})

		Convey("When the saver fails", func() {
			failing := &recordingSaver{err: errors.New("disk full")}
			s2 := repository.NewMemoryStore(seed(), repository.WithSaver(failing))
			_, err := s2.AddEvent(ctx, model.Event{ID: "e1", Name: "A", Date: "2025-01-10", Weight: 10})

			Convey("Then the write still succeeds", func() {
				So(err, ShouldBeNil)
				So(len(s2.Events(ctx)), ShouldEqual, 1)
			})
		})
	})
}

func TestMemoryStoreConcurrency(t *testing.T) {
	_ = logger.Init()
	ctx := context.Background()

	Convey("Given concurrent uploads of the same roster", t, func() {
		store := repository.NewMemoryStore(seed())
		_, _ = store.AddEvent(ctx, model.Event{ID: "e1", Name: "A", Date: "2025-01-10", Weight: 10})
		matched := matching.IDSet{"1001": {}, "1002": {}, "1003": {}}

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = store.Credit(ctx, "e1", matched, model.KindAttendance, scoring.Meta{})
			}()
		}
		wg.Wait()

		Convey("Then each school is credited exactly once", func() {
			for _, s := range store.Schools(ctx) {
				So(s.TotalScore, ShouldEqual, 10)
				So(s.EventsParticipated, ShouldEqual, 1)
			}
		})
	})
}
