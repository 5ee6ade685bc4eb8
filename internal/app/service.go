// Package service runs event rows through the scoring engine and the demand
// synthesizer.
package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/okian/kickoff/internal/domain/model"
	"github.com/okian/kickoff/internal/domain/scoring"
	"github.com/okian/kickoff/pkg/logger"
	"github.com/okian/kickoff/pkg/metrics"
)

// Run outcomes reported to metrics.
const (
	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeCancelled = "cancelled"
)

// Rejection reasons reported to metrics.
const (
	reasonDecode         = "decode"
	reasonRowTooLong     = "row_too_long"
	reasonMalformedDate  = "malformed_date"
	reasonMalformedClock = "malformed_clock"
	reasonInvalidForm    = "invalid_form"
	reasonFormTooLong    = "form_too_long"
	reasonMalformed      = "malformed_input"
)

const (
	maxLineBytes   = 1 << 20
	readBufferSize = 64 * 1024
)

var (
	// ErrDecodeRow is returned for input lines that are not a JSON event row.
	ErrDecodeRow = errors.New("decode event row")
	// ErrRowTooLong is returned for input lines longer than the row limit.
	ErrRowTooLong = errors.New("event row too long")
)

// Summary describes a finished pipeline run.
type Summary struct {
	Rows     int
	Scored   int
	Rejected int
	Duration time.Duration
}

// Service scores event rows one at a time.
type Service struct {
	synth      *scoring.Synthesizer
	baseClicks int
	failFast   bool
	newID      func() string
	logger     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSynthesizer sets the demand synthesizer.
func WithSynthesizer(s *scoring.Synthesizer) Option {
	return func(svc *Service) {
		if s != nil {
			svc.synth = s
		}
	}
}

// WithBaseClicks sets the base volume for rows without base_clicks.
func WithBaseClicks(n int) Option {
	return func(svc *Service) {
		if n >= 0 {
			svc.baseClicks = n
		}
	}
}

// WithFailFast makes Run stop at the first rejected row.
func WithFailFast(enabled bool) Option {
	return func(svc *Service) {
		svc.failFast = enabled
	}
}

// WithIDGenerator sets the generator for rows without an event id.
func WithIDGenerator(gen func() string) Option {
	return func(svc *Service) {
		if gen != nil {
			svc.newID = gen
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a Service. Without options it uses the stock synthesizer,
// 1000 base clicks and the global logger.
func New(opts ...Option) *Service {
	s := &Service{
		baseClicks: scoring.DefaultBaseClicks,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.synth == nil {
		s.synth = scoring.NewSynthesizer()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// ScoreRow computes every sub-score for row and synthesizes its clicks.
// A malformed row yields an error and no partial record.
func (s *Service) ScoreRow(ctx context.Context, row model.EventRow) (model.ScoreRecord, error) {
	id := row.EventID
	if id == "" {
		id = s.newID()
	}

	when, err := row.DateTimeInput()
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("event %s: %w", id, err)
	}
	team, err := scoring.ScoreTeam(row.TeamInput())
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("event %s: %w", id, err)
	}

	rec := model.ScoreRecord{
		EventID:          id,
		DateScore:        scoring.ScoreDateTime(when),
		CompetitionScore: scoring.ScoreCompetition(row.CompetitionInput()),
		TeamScore:        team,
		WeatherScore:     scoring.ScoreWeather(row.WeatherInput()),
		BaseClicks:       row.Clicks(s.baseClicks),
	}
	rec.Clicks = s.synth.Synthesize(rec.Scores(), rec.BaseClicks)

	metrics.RecordRowScored(rec.DateScore, rec.CompetitionScore, rec.TeamScore, rec.WeatherScore, rec.Clicks, row.IsDerby)
	s.logger.Debug(ctx, "row scored",
		logger.String("eventID", rec.EventID),
		logger.Float64("date", rec.DateScore),
		logger.Float64("competition", rec.CompetitionScore),
		logger.Float64("team", rec.TeamScore),
		logger.Float64("weather", rec.WeatherScore),
		logger.Int("clicks", rec.Clicks),
	)
	return rec, nil
}

// Run reads JSON Lines event rows from r and writes one JSON score record per
// scored row to w. Rejected rows are logged and skipped unless fail-fast is
// set. Cancellation is checked between rows.
func (s *Service) Run(ctx context.Context, r io.Reader, w io.Writer) (Summary, error) {
	start := time.Now()
	var sum Summary

	finish := func(outcome string, err error) (Summary, error) {
		sum.Duration = time.Since(start)
		metrics.RecordRun(outcome, sum.Duration.Seconds())
		s.logger.Info(ctx, "run finished",
			logger.String("outcome", outcome),
			logger.Int("rows", sum.Rows),
			logger.Int("scored", sum.Scored),
			logger.Int("rejected", sum.Rejected),
			logger.Duration("duration", sum.Duration),
		)
		return sum, err
	}

	reader := bufio.NewReaderSize(r, readBufferSize)
	enc := json.NewEncoder(w)

	line := 0
	for {
		data, tooLong, err := readRow(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return finish(outcomeError, fmt.Errorf("read rows: %w", err))
		}
		line++
		if err := ctx.Err(); err != nil {
			return finish(outcomeCancelled, fmt.Errorf("run cancelled at line %d: %w", line, err))
		}
		text := bytes.TrimSpace(data)
		if !tooLong && len(text) == 0 {
			continue
		}
		sum.Rows++

		var rec model.ScoreRecord
		if tooLong {
			err = fmt.Errorf("%w: over %d bytes", ErrRowTooLong, maxLineBytes)
		} else {
			rec, err = s.scoreLine(ctx, text)
		}
		if err != nil {
			sum.Rejected++
			metrics.RecordRowRejected(rejectionReason(err))
			s.logger.Warn(ctx, "row rejected", logger.Int("line", line), logger.Error(err))
			if s.failFast {
				return finish(outcomeError, fmt.Errorf("line %d: %w", line, err))
			}
			continue
		}

		if err := enc.Encode(rec); err != nil {
			return finish(outcomeError, fmt.Errorf("write record at line %d: %w", line, err))
		}
		sum.Scored++
	}
	return finish(outcomeOK, nil)
}

// readRow returns the next line without its terminator. A line longer than
// maxLineBytes is consumed in full and reported with tooLong set and no data.
// io.EOF is returned only once no bytes remain.
func readRow(r *bufio.Reader) (data []byte, tooLong bool, err error) {
	var buf []byte
	n := 0
	for {
		chunk, readErr := r.ReadSlice('\n')
		n += len(chunk)
		if n <= maxLineBytes+1 {
			buf = append(buf, chunk...)
		}
		switch {
		case errors.Is(readErr, bufio.ErrBufferFull):
			continue
		case readErr == nil:
			n-- // newline
		case errors.Is(readErr, io.EOF):
			if n == 0 {
				return nil, false, io.EOF
			}
		default:
			return nil, false, readErr
		}
		if n > maxLineBytes {
			return nil, true, nil
		}
		return bytes.TrimSuffix(buf, []byte("\n")), false, nil
	}
}

func (s *Service) scoreLine(ctx context.Context, text []byte) (model.ScoreRecord, error) {
	var row model.EventRow
	if err := json.Unmarshal(text, &row); err != nil {
		return model.ScoreRecord{}, fmt.Errorf("%w: %w", ErrDecodeRow, err)
	}
	return s.ScoreRow(ctx, row)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrDecodeRow):
		return reasonDecode
	case errors.Is(err, ErrRowTooLong):
		return reasonRowTooLong
	case errors.Is(err, scoring.ErrMalformedDate):
		return reasonMalformedDate
	case errors.Is(err, scoring.ErrMalformedClock):
		return reasonMalformedClock
	case errors.Is(err, scoring.ErrInvalidFormResult):
		return reasonInvalidForm
	case errors.Is(err, scoring.ErrFormTooLong):
		return reasonFormTooLong
	default:
		return reasonMalformed
	}
}
