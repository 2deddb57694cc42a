package persistence_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/simonev/internal/adapters/persistence"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func sample() model.Snapshot {
	return model.Snapshot{
		Schools: []model.School{
			{ID: "1", NPSN: "1", Name: "SMAK A", Type: model.CategorySMAK, Province: "NTT", TotalScore: 15, EventsParticipated: 1, TotalEventsPossible: 2, ParticipatedEventIDs: []string{"e1"}},
			{ID: "2", NPSN: "2", Name: "SMTK B", Type: model.CategorySMTK, TotalEventsPossible: 2, ParticipatedEventIDs: []string{}},
		},
		Events: []model.Event{
			{ID: "e1", Name: "Sosialisasi", Date: "2025-01-10", Type: model.EventSocialization, Weight: 10},
			{ID: "e2", Name: "Permintaan Data", Date: "2025-02-01", Type: model.EventDataRequest, Weight: 5, Description: "form"},
		},
	}
}

func roundTrip(b persistence.Backend) {
	ctx := context.Background()

	convey.Convey("When nothing was saved yet", func() {
		p, err := b.Load(ctx)

		convey.Convey("Then Load reports an empty partial snapshot", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.HasSchools, convey.ShouldBeFalse)
			convey.So(p.HasEvents, convey.ShouldBeFalse)
		})
	})

	convey.Convey("When a snapshot is saved and loaded", func() {
		convey.So(b.Save(ctx, sample()), convey.ShouldBeNil)
		p, err := b.Load(ctx)

		convey.Convey("Then it round-trips unchanged", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.HasSchools, convey.ShouldBeTrue)
			convey.So(p.HasEvents, convey.ShouldBeTrue)
			got := p.Apply(model.Snapshot{})
			convey.So(cmp.Diff(sample(), got), convey.ShouldBeEmpty)
		})

		convey.Convey("And a second save replaces it", func() {
			next := sample()
			next.Events = next.Events[:1]
			convey.So(b.Save(ctx, next), convey.ShouldBeNil)
			p, err := b.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(p.Events), convey.ShouldEqual, 1)
		})
	})
}

func TestFileBackend(t *testing.T) {
	convey.Convey("Given a file backend in a temp dir", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "simonev.json")
		b, err := persistence.NewFileBackend(path)
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = b.Close() }()

		roundTrip(b)

		convey.Convey("When the file holds an old document without participatedEventIds", func() {
			convey.So(os.MkdirAll(filepath.Dir(path), 0o755), convey.ShouldBeNil)
			doc := `{"schools":[{"id":"7","name":"SMAK Old","type":"SMAK","totalScore":3}]}`
			convey.So(os.WriteFile(path, []byte(doc), 0o600), convey.ShouldBeNil)
			p, err := b.Load(context.Background())

			convey.Convey("Then it is migrated on read", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.HasEvents, convey.ShouldBeFalse)
				convey.So(p.Schools[0].ParticipatedEventIDs, convey.ShouldNotBeNil)
				convey.So(p.Schools[0].ParticipatedEventIDs, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the file is corrupt", func() {
			convey.So(os.MkdirAll(filepath.Dir(path), 0o755), convey.ShouldBeNil)
			convey.So(os.WriteFile(path, []byte("{nope"), 0o600), convey.ShouldBeNil)
			_, err := b.Load(context.Background())

			convey.Convey("Then ErrCorrupt is returned", func() {
				convey.So(errors.Is(err, persistence.ErrCorrupt), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given an empty path", t, func() {
		_, err := persistence.NewFileBackend(" ")
		convey.So(errors.Is(err, persistence.ErrEmptyPath), convey.ShouldBeTrue)
	})
}

func TestSQLiteBackend(t *testing.T) {
	convey.Convey("Given a sqlite backend in a temp dir", t, func() {
		b, err := persistence.OpenSQLite(filepath.Join(t.TempDir(), "simonev.db"))
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = b.Close() }()

		roundTrip(b)

		convey.Convey("When only the events row exists", func() {
			_, err := b.DB().Exec(`INSERT INTO snapshot_kv (key, value) VALUES ('events', '[]')`)
			convey.So(err, convey.ShouldBeNil)
			p, err := b.Load(context.Background())

			convey.Convey("Then only events are reported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.HasEvents, convey.ShouldBeTrue)
				convey.So(p.HasSchools, convey.ShouldBeFalse)
			})
		})
	})
}

func TestOpen(t *testing.T) {
	convey.Convey("Given the driver names", t, func() {
		dir := t.TempDir()

		convey.Convey("Then each known driver opens", func() {
			for _, d := range []string{"file", "sqlite", "memory"} {
				b, err := persistence.Open(d, filepath.Join(dir, "db-"+d))
				convey.So(err, convey.ShouldBeNil)
				convey.So(b.Close(), convey.ShouldBeNil)
			}
		})

		convey.Convey("And an unknown driver fails", func() {
			_, err := persistence.Open("mongo", "x")
			convey.So(errors.Is(err, persistence.ErrUnknownDriver), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a memory backend", t, func() {
		roundTrip(persistence.NewMemoryBackend())
	})
}
