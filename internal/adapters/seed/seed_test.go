package seed_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/simonev/internal/adapters/seed"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	convey.Convey("Given the built-in directory", t, func() {
		schools, err := seed.Default()

		convey.Convey("Then it loads both categories with zero counters", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(schools), convey.ShouldBeGreaterThan, 10)
			cats := map[model.Category]int{}
			for _, s := range schools {
				cats[s.Type]++
				convey.So(s.ID, convey.ShouldEqual, s.NPSN)
				convey.So(s.TotalScore, convey.ShouldEqual, 0)
				convey.So(s.ParticipatedEventIDs, convey.ShouldNotBeNil)
			}
			convey.So(cats[model.CategorySMAK], convey.ShouldBeGreaterThan, 0)
			convey.So(cats[model.CategorySMTK], convey.ShouldBeGreaterThan, 0)
		})
	})
}

func TestLoad(t *testing.T) {
	convey.Convey("Given a directory file", t, func() {
		path := filepath.Join(t.TempDir(), "schools.yaml")

		convey.Convey("When it is valid", func() {
			doc := "schools:\n  - {npsn: \" 123 \", name: SMAK X, type: smak}\n"
			convey.So(os.WriteFile(path, []byte(doc), 0o600), convey.ShouldBeNil)
			schools, err := seed.Load(path)

			convey.Convey("Then entries are normalized", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(schools[0].ID, convey.ShouldEqual, "123")
				convey.So(schools[0].Type, convey.ShouldEqual, model.CategorySMAK)
			})
		})

		convey.Convey("When it has duplicates or bad categories", func() {
			for _, doc := range []string{
				"schools:\n  - {npsn: \"1\", type: SMAK}\n  - {npsn: \"1\", type: SMTK}\n",
				"schools:\n  - {npsn: \"1\", type: SMA}\n",
				"schools:\n  - {name: no id, type: SMAK}\n",
				"schools: [",
			} {
				convey.So(os.WriteFile(path, []byte(doc), 0o600), convey.ShouldBeNil)
				_, err := seed.Load(path)
				convey.So(errors.Is(err, seed.ErrInvalidDirectory), convey.ShouldBeTrue)
			}
		})

		convey.Convey("When it does not exist", func() {
			_, err := seed.Load(filepath.Join(t.TempDir(), "missing.yaml"))
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
