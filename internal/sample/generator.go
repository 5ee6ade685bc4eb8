// Package sample generates well-formed synthetic event rows for exercising
// the scoring pipeline.
package sample

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/kickoff/internal/domain/model"
	"github.com/okian/kickoff/internal/domain/scoring"
)

// Generation constants.
const (
	defaultSeed      = 42
	seasonDays       = 280
	maxMatchday      = 34
	leagueSize       = 18
	minMembers       = 5_000
	maxMembers       = 420_000
	formLength       = 5
	missingWeatherP  = 0.1
	holidayP         = 0.05
	competingEventP  = 0.1
	derbyP           = 0.08
	knockoutStageP   = 0.4
	rainyDayP        = 0.35
	meanRainMM       = 8.0
	temperatureNoise = 4.0
)

var seasonStart = time.Date(2024, time.August, 2, 0, 0, 0, 0, time.UTC)

var kickoffTimes = []string{"15:30", "15:30", "18:30", "20:30", "17:30", "19:30", "13:30", "21:00"}

var competitions = []string{
	scoring.CompetitionBundesliga,
	scoring.CompetitionBundesliga,
	scoring.CompetitionBundesliga,
	scoring.CompetitionBundesliga,
	scoring.CompetitionDFBPokal,
	scoring.CompetitionEuropaLeague,
	scoring.CompetitionConferenceLeague,
	scoring.CompetitionChampionsLeague,
}

var stages = []string{scoring.StageQuarterfinal, scoring.StageSemifinal, scoring.StageFinal}

var forms = []byte{'W', 'D', 'L'}

// Typical matchday temperature per month, in degrees Celsius.
var monthlyTemperature = map[time.Month]float64{
	time.January: 1, time.February: 2, time.March: 6, time.April: 10,
	time.May: 15, time.June: 19, time.July: 21, time.August: 21,
	time.September: 16, time.October: 11, time.November: 6, time.December: 2,
}

// ErrInvalidCount is returned when Config.Count is not positive.
var ErrInvalidCount = errors.New("sample count must be positive")

// Config controls row generation.
type Config struct {
	Count int
	Seed  int64 // zero uses a fixed default seed
}

// EffectiveSeed returns the seed Generate uses for c.
func (c Config) EffectiveSeed() int64 {
	if c.Seed == 0 {
		return defaultSeed
	}
	return c.Seed
}

// Generate builds cfg.Count random event rows. Equal seeds produce equal rows,
// including event ids.
func Generate(ctx context.Context, cfg Config) ([]model.EventRow, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, cfg.Count)
	}
	rng := rand.New(rand.NewSource(cfg.EffectiveSeed())) //nolint:gosec // reproducible synthetic data

	rows := make([]model.EventRow, cfg.Count)
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled after %d rows: %w", i, err)
		}
		row, err := generateRow(rng)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

func generateRow(rng *rand.Rand) (model.EventRow, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return model.EventRow{}, fmt.Errorf("event id: %w", err)
	}

	date := seasonStart.AddDate(0, 0, rng.Intn(seasonDays))
	competition := competitions[rng.Intn(len(competitions))]

	row := model.EventRow{
		EventID:          id.String(),
		Date:             date.Format("2006-01-02"),
		Time:             kickoffTimes[rng.Intn(len(kickoffTimes))] + ":00.0000000",
		Competition:      competition,
		IsHoliday:        rng.Float64() < holidayP,
		CompetingEvent:   rng.Float64() < competingEventP,
		Matchday:         intPtr(1 + rng.Intn(maxMatchday)),
		Members:          minMembers + rng.Intn(maxMembers-minMembers),
		Form:             randomForm(rng),
		HomePosition:     1 + rng.Intn(leagueSize),
		OpponentPosition: 1 + rng.Intn(leagueSize),
		IsDerby:          rng.Float64() < derbyP,
	}
	if competition != scoring.CompetitionBundesliga && rng.Float64() < knockoutStageP {
		row.Stage = stages[rng.Intn(len(stages))]
	}
	if rng.Float64() >= missingWeatherP {
		temp := math.Round((monthlyTemperature[date.Month()]+rng.NormFloat64()*temperatureNoise)*10) / 10
		precip := 0.0
		if rng.Float64() < rainyDayP {
			precip = math.Round(rng.ExpFloat64()*meanRainMM*10) / 10
		}
		season := seasonOf(date.Month())
		row.Temperature, row.Precipitation, row.Season = &temp, &precip, &season
	}
	return row, nil
}

func randomForm(rng *rand.Rand) string {
	b := make([]byte, formLength)
	for i := range b {
		b[i] = forms[rng.Intn(len(forms))]
	}
	return string(b)
}

func seasonOf(m time.Month) string {
	switch m {
	case time.March, time.April, time.May:
		return scoring.SeasonSpring
	case time.June, time.July, time.August:
		return scoring.SeasonSummer
	case time.September, time.October, time.November:
		return scoring.SeasonFall
	default:
		return scoring.SeasonWinter
	}
}

func intPtr(v int) *int { return &v }

// WriteJSONL encodes rows as JSON Lines.
func WriteJSONL(w io.Writer, rows []model.EventRow) error {
	enc := json.NewEncoder(w)
	for i := range rows {
		if err := enc.Encode(rows[i]); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return nil
}
