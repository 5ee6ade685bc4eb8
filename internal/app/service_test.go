package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	service "github.com/okian/kickoff/internal/app"
	"github.com/okian/kickoff/internal/domain/model"
	"github.com/okian/kickoff/internal/domain/scoring"
	"github.com/okian/kickoff/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.InitWithWriter(io.Discard, logger.FormatText); err != nil {
		panic(err)
	}
}

func ptr[T any](v T) *T { return &v }

func quietService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithSynthesizer(scoring.NewSynthesizer(scoring.WithNoise(scoring.ConstantNoise(0)))),
		service.WithIDGenerator(func() string { return "generated" }),
	}
	return service.New(append(base, opts...)...)
}

func bigSaturday() model.EventRow {
	return model.EventRow{
		EventID:          "evt-1",
		Date:             "2024-08-03",
		Time:             "15:30:00.0000000",
		Competition:      "Champions League",
		Stage:            "Semifinal",
		Members:          409_000,
		Form:             "WWWWW",
		HomePosition:     1,
		OpponentPosition: 2,
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should be usable right away", func() {
			So(svc, ShouldNotBeNil)
			_, err := svc.ScoreRow(context.Background(), bigSaturday())
			So(err, ShouldBeNil)
		})
	})
}

func TestService_ScoreRow(t *testing.T) {
	Convey("Given a service with silenced noise", t, func() {
		svc := quietService()
		ctx := context.Background()

		Convey("When scoring a big Saturday game", func() {
			rec, err := svc.ScoreRow(ctx, bigSaturday())

			Convey("Then every sub-score should be filled", func() {
				So(err, ShouldBeNil)
				So(rec.EventID, ShouldEqual, "evt-1")
				So(rec.DateScore, ShouldEqual, 1.0)
				So(rec.CompetitionScore, ShouldEqual, 0.91)
				So(rec.TeamScore, ShouldEqual, 1.0)
				So(rec.WeatherScore, ShouldEqual, 1.0)
				So(rec.BaseClicks, ShouldEqual, 1000)
			})

			Convey("And the clicks should follow the weighted formula", func() {
				// 1000 + (0.2 + 0.3*0.91 + 0.2 + 0.2) * 4000
				So(rec.Clicks, ShouldEqual, 4492)
			})
		})

		Convey("When the row has its own base clicks", func() {
			row := bigSaturday()
			row.BaseClicks = ptr(0)
			rec, err := svc.ScoreRow(ctx, row)

			Convey("Then the row value should be used", func() {
				So(err, ShouldBeNil)
				So(rec.BaseClicks, ShouldEqual, 0)
				So(rec.Clicks, ShouldEqual, 3492)
			})
		})

		Convey("When the row has no event id", func() {
			row := bigSaturday()
			row.EventID = ""
			rec, err := svc.ScoreRow(ctx, row)

			Convey("Then a generated id should be assigned", func() {
				So(err, ShouldBeNil)
				So(rec.EventID, ShouldEqual, "generated")
			})
		})

		Convey("When the row is a derby", func() {
			row := bigSaturday()
			row.IsDerby = true
			rec, err := svc.ScoreRow(ctx, row)

			Convey("Then the team score should exceed 1", func() {
				So(err, ShouldBeNil)
				So(rec.TeamScore, ShouldBeGreaterThan, 1.0)
			})
		})

		Convey("When the form is malformed", func() {
			row := bigSaturday()
			row.Form = "WWX"
			rec, err := svc.ScoreRow(ctx, row)

			Convey("Then no partial record should be returned", func() {
				So(errors.Is(err, scoring.ErrInvalidFormResult), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "evt-1")
				So(rec, ShouldResemble, model.ScoreRecord{})
			})
		})

		Convey("When the date is malformed", func() {
			row := bigSaturday()
			row.Date = "tomorrow"
			_, err := svc.ScoreRow(ctx, row)

			Convey("Then the malformed input should surface", func() {
				So(errors.Is(err, scoring.ErrMalformedDate), ShouldBeTrue)
				So(errors.Is(err, scoring.ErrMalformedInput), ShouldBeTrue)
			})
		})

		Convey("When the same row is scored twice", func() {
			first, err1 := svc.ScoreRow(ctx, bigSaturday())
			second, err2 := svc.ScoreRow(ctx, bigSaturday())

			Convey("Then the records should be identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})
	})

	Convey("Given a service with a custom base volume", t, func() {
		svc := quietService(service.WithBaseClicks(500))

		Convey("Then rows without base clicks should use it", func() {
			rec, err := svc.ScoreRow(context.Background(), bigSaturday())
			So(err, ShouldBeNil)
			So(rec.BaseClicks, ShouldEqual, 500)
			So(rec.Clicks, ShouldEqual, 3992)
		})
	})
}
