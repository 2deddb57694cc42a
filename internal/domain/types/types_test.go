package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/tier"
	"github.com/okian/simonev/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSchoolView(t *testing.T) {
	Convey("Given a school that joined 3 of 4 events", t, func() {
		s := model.School{ID: "1", Name: "SMAK A", Type: model.CategorySMAK, EventsParticipated: 3, TotalEventsPossible: 4}

		Convey("When a view is derived", func() {
			v := types.NewSchoolView(s)

			Convey("Then tier and ratio are filled", func() {
				So(v.Tier, ShouldEqual, tier.Good)
				So(v.Ratio, ShouldEqual, 0.75)
			})

			Convey("And the JSON is flat with snapshot field names", func() {
				b, err := json.Marshal(types.RankingEntry{Rank: 1, SchoolView: v})
				So(err, ShouldBeNil)
				var m map[string]any
				So(json.Unmarshal(b, &m), ShouldBeNil)
				So(m["rank"], ShouldEqual, 1.0)
				So(m["totalEventsPossible"], ShouldEqual, 4.0)
				So(m["tier"], ShouldEqual, "Good")
			})
		})
	})
}

func TestTierCounts(t *testing.T) {
	Convey("Given new tier counts", t, func() {
		c := types.NewTierCounts()

		Convey("Then all four tiers are present at zero", func() {
			So(len(c), ShouldEqual, 4)
			for _, tr := range tier.All() {
				v, ok := c[tr]
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 0)
			}
		})
	})
}
