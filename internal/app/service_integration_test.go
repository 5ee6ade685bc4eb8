package service_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	service "github.com/okian/kickoff/internal/app"
	"github.com/okian/kickoff/internal/domain/model"
	"github.com/okian/kickoff/internal/domain/scoring"
	"github.com/okian/kickoff/internal/sample"
	. "github.com/smartystreets/goconvey/convey"
)

const mixedInput = `{"event_id":"ok-1","date":"2024-08-03","time":"15:30","competition":"Champions League","stage":"Semifinal","members":409000,"form":"WWWWW","home_position":1,"opponent_position":2}

{"event_id":"bad-form","date":"2024-08-03","time":"15:30","competition":"Bundesliga","members":50000,"form":"WWX","home_position":4,"opponent_position":9}
not json at all
{"date":"2024-08-06","time":"20:30","competition":"DFB Pokal","members":10000,"form":"","home_position":20,"opponent_position":20}
`

// rowLimit mirrors the per-line size limit of Service.Run.
const rowLimit = 1 << 20

const goodRow = `{"event_id":"ok","date":"2024-08-03","time":"15:30","competition":"Bundesliga","members":50000,"form":"WDL","home_position":4,"opponent_position":9}`

func oversizedRow() string {
	return `{"event_id":"huge","form":"` + strings.Repeat("W", 2*rowLimit) + `"}`
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func decodeRecords(out *bytes.Buffer) []model.ScoreRecord {
	var recs []model.ScoreRecord
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var rec model.ScoreRecord
		So(json.Unmarshal(sc.Bytes(), &rec), ShouldBeNil)
		recs = append(recs, rec)
	}
	return recs
}

func TestServiceRun(t *testing.T) {
	Convey("Given a JSON Lines stream with good and bad rows", t, func() {
		ctx := context.Background()
		var out bytes.Buffer

		Convey("When running in the default mode", func() {
			svc := quietService()
			sum, err := svc.Run(ctx, strings.NewReader(mixedInput), &out)

			Convey("Then bad rows should be skipped and counted", func() {
				So(err, ShouldBeNil)
				So(sum.Rows, ShouldEqual, 4)
				So(sum.Scored, ShouldEqual, 2)
				So(sum.Rejected, ShouldEqual, 2)
			})

			Convey("And scored rows should be written in input order", func() {
				recs := decodeRecords(&out)
				So(len(recs), ShouldEqual, 2)
				So(recs[0].EventID, ShouldEqual, "ok-1")
				So(recs[0].Clicks, ShouldEqual, 4492)
				So(recs[1].EventID, ShouldEqual, "generated")
				So(recs[1].TeamScore, ShouldEqual, 0.0)
				So(recs[1].DateScore, ShouldEqual, 0.75)
				So(recs[1].CompetitionScore, ShouldEqual, 0.5)
			})
		})

		Convey("When running in fail-fast mode", func() {
			svc := quietService(service.WithFailFast(true))
			sum, err := svc.Run(ctx, strings.NewReader(mixedInput), &out)

			Convey("Then the run should stop at the first bad row", func() {
				So(errors.Is(err, scoring.ErrInvalidFormResult), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "line 3")
				So(sum.Scored, ShouldEqual, 1)
				So(sum.Rejected, ShouldEqual, 1)
				So(len(decodeRecords(&out)), ShouldEqual, 1)
			})
		})

		Convey("When the only bad row is undecodable", func() {
			svc := quietService(service.WithFailFast(true))
			_, err := svc.Run(ctx, strings.NewReader("{\"date\":"), &out)

			Convey("Then a decode error should be returned", func() {
				So(errors.Is(err, service.ErrDecodeRow), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			svc := quietService()
			sum, err := svc.Run(cctx, strings.NewReader(mixedInput), &out)

			Convey("Then no rows should be processed", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(sum.Rows, ShouldEqual, 0)
				So(out.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the output cannot be written", func() {
			svc := quietService()
			_, err := svc.Run(ctx, strings.NewReader(mixedInput), failingWriter{})

			Convey("Then the write error should surface", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "disk full")
			})
		})
	})
}

func TestServiceRunOversizedRows(t *testing.T) {
	Convey("Given a stream with a row over the size limit between good rows", t, func() {
		ctx := context.Background()
		input := goodRow + "\n" + oversizedRow() + "\n" + goodRow + "\n"
		var out bytes.Buffer

		Convey("When running in the default mode", func() {
			sum, err := quietService().Run(ctx, strings.NewReader(input), &out)

			Convey("Then the oversized row should be rejected and the rest scored", func() {
				So(err, ShouldBeNil)
				So(sum.Rows, ShouldEqual, 3)
				So(sum.Scored, ShouldEqual, 2)
				So(sum.Rejected, ShouldEqual, 1)
				recs := decodeRecords(&out)
				So(len(recs), ShouldEqual, 2)
				So(recs[1].EventID, ShouldEqual, "ok")
			})
		})

		Convey("When running in fail-fast mode", func() {
			sum, err := quietService(service.WithFailFast(true)).Run(ctx, strings.NewReader(input), &out)

			Convey("Then the run should stop at the oversized row", func() {
				So(errors.Is(err, service.ErrRowTooLong), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "line 2")
				So(sum.Scored, ShouldEqual, 1)
				So(sum.Rejected, ShouldEqual, 1)
			})
		})

		Convey("When the oversized row is the last line without a newline", func() {
			sum, err := quietService().Run(ctx, strings.NewReader(goodRow+"\n"+oversizedRow()), &out)

			Convey("Then it should still be counted as rejected", func() {
				So(err, ShouldBeNil)
				So(sum.Rows, ShouldEqual, 2)
				So(sum.Rejected, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a row padded to exactly the size limit", t, func() {
		padded := goodRow + strings.Repeat(" ", rowLimit-len(goodRow))
		var out bytes.Buffer

		Convey("Then it should be scored", func() {
			sum, err := quietService().Run(context.Background(), strings.NewReader(padded+"\n"+goodRow), &out)
			So(err, ShouldBeNil)
			So(sum.Scored, ShouldEqual, 2)
			So(sum.Rejected, ShouldEqual, 0)
		})
	})
}

func TestServiceRunGeneratedRows(t *testing.T) {
	Convey("Given generated sample rows", t, func() {
		ctx := context.Background()
		rows, err := sample.Generate(ctx, sample.Config{Count: 200, Seed: 11})
		So(err, ShouldBeNil)

		var in bytes.Buffer
		So(sample.WriteJSONL(&in, rows), ShouldBeNil)

		Convey("When running them through a seeded pipeline twice", func() {
			run := func() (service.Summary, []model.ScoreRecord) {
				svc := service.New(service.WithSynthesizer(
					scoring.NewSynthesizer(scoring.WithNoise(scoring.NewGaussianNoise(0, 200, 99))),
				))
				var out bytes.Buffer
				sum, err := svc.Run(ctx, bytes.NewReader(in.Bytes()), &out)
				So(err, ShouldBeNil)
				return sum, decodeRecords(&out)
			}
			sum1, recs1 := run()
			_, recs2 := run()

			Convey("Then every row should be scored", func() {
				So(sum1.Rows, ShouldEqual, 200)
				So(sum1.Scored, ShouldEqual, 200)
				So(sum1.Rejected, ShouldEqual, 0)
			})

			Convey("And the output should be reproducible", func() {
				So(recs1, ShouldResemble, recs2)
			})

			Convey("And the sub-scores should respect their documented ranges", func() {
				for _, rec := range recs1 {
					So(rec.WeatherScore, ShouldBeBetweenOrEqual, 0.0, 1.0)
					So(rec.CompetitionScore, ShouldBeBetweenOrEqual, 0.0, 1.0)
					So(rec.DateScore, ShouldBeBetweenOrEqual, 0.0, 1.15)
					So(rec.TeamScore, ShouldBeBetweenOrEqual, 0.0, 1.2+1e-9)
				}
			})
		})
	})
}
