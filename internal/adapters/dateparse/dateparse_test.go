package dateparse_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/simonev/internal/adapters/dateparse"
	"github.com/smartystreets/goconvey/convey"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestDay(t *testing.T) {
	convey.Convey("Given a parser anchored on Wednesday 2025-03-12", t, func() {
		now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
		p := dateparse.New(dateparse.WithClock(fixedClock(now)))

		convey.Convey("ISO days pass through", func() {
			d, err := p.Day(" 2025-01-31 ")
			convey.So(err, convey.ShouldBeNil)
			convey.So(d, convey.ShouldEqual, "2025-01-31")
		})

		convey.Convey("Relative expressions resolve against the clock", func() {
			d, err := p.Day("tomorrow")
			convey.So(err, convey.ShouldBeNil)
			convey.So(d, convey.ShouldEqual, "2025-03-13")
		})

		convey.Convey("ISO-shaped days that do not exist fail", func() {
			for _, in := range []string{"2025-02-30", "2025-13-01", "2025-1-5"} {
				_, err := p.Day(in)
				convey.So(errors.Is(err, dateparse.ErrUnrecognizedDate), convey.ShouldBeTrue)
			}
		})

		convey.Convey("Expressions buried in other text fail", func() {
			for _, in := range []string{"room 5 tomorrow", "tomorrow please", "meet next friday at hall"} {
				_, err := p.Day(in)
				convey.So(errors.Is(err, dateparse.ErrUnrecognizedDate), convey.ShouldBeTrue)
			}
		})

		convey.Convey("Whole relative expressions still resolve", func() {
			d, err := p.Day("Next Friday")
			convey.So(err, convey.ShouldBeNil)
			convey.So(d, convey.ShouldEqual, "2025-03-14")
		})

		convey.Convey("Blank and unknown input fail", func() {
			_, err := p.Day("  ")
			convey.So(errors.Is(err, dateparse.ErrEmptyDate), convey.ShouldBeTrue)
			_, err = p.Day("zzz qqq")
			convey.So(errors.Is(err, dateparse.ErrUnrecognizedDate), convey.ShouldBeTrue)
		})
	})
}
