package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultMatchday is used by callers that do not know the league round.
const DefaultMatchday = 14

const (
	dateLayout  = "2006-1-2"
	clockLayout = "15:04"

	defaultSlotScore   = 0.75
	holidayBonus       = 0.1
	holidayCap         = 1.1
	competingPenalty   = 0.1
	earlyMatchdayLimit = 5
	lateMatchdayLimit  = 30
	boundaryBonus      = 0.05
)

// Clock is a kickoff time truncated to the minute.
type Clock struct {
	Hour   int
	Minute int
}

// String formats the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

type slot struct {
	day     time.Weekday
	kickoff Clock
}

var slotScore = map[slot]float64{
	{time.Saturday, Clock{15, 30}}: 1.0,
	{time.Saturday, Clock{18, 30}}: 0.95,
	{time.Friday, Clock{20, 30}}:   0.9,
	{time.Sunday, Clock{15, 30}}:   0.8,
	{time.Sunday, Clock{17, 30}}:   0.7,
	{time.Sunday, Clock{19, 30}}:   0.6,
}

// DateTimeInput describes when a match is played.
type DateTimeInput struct {
	Date           time.Time
	Kickoff        Clock
	IsHoliday      bool
	CompetingEvent bool
	Matchday       int
}

// ParseDate reads a calendar date (YYYY-MM-DD, month and day optionally
// unpadded). Anything after a space or 'T' is ignored, so
// "2022-08-05 00:00:00" and "2022-8-5" are both accepted.
func ParseDate(s string) (time.Time, error) {
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return d, nil
}

// ParseClock reads a kickoff time from the first five characters of s
// (HH:MM), so "20:30:00.0000000" yields 20:30.
func ParseClock(s string) (Clock, error) {
	if len(s) > len(clockLayout) {
		s = s[:len(clockLayout)]
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ScoreDateTime scores the kickoff slot. The holiday bonus caps at 1.1 and
// the early/late matchday bonus is applied after that cap, so the result can
// reach 1.15.
func ScoreDateTime(in DateTimeInput) float64 {
	score := lookup(slotScore, slot{day: in.Date.Weekday(), kickoff: in.Kickoff}, defaultSlotScore)

	if in.IsHoliday {
		score = math.Min(score+holidayBonus, holidayCap)
	}
	if in.CompetingEvent {
		score = math.Max(score-competingPenalty, 0)
	}
	if in.Matchday <= earlyMatchdayLimit || in.Matchday >= lateMatchdayLimit {
		score += boundaryBonus
	}
	return round(score, dateTimePrecision)
}
