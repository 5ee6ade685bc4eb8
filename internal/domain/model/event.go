// Package model contains the row shapes exchanged with the pipeline.
package model

import (
	"github.com/okian/kickoff/internal/domain/scoring"
)

// EventRow is one raw event record as supplied by the upstream dataset.
// Pointer fields are optional.
type EventRow struct {
	EventID string `json:"event_id,omitempty"`

	Date string `json:"date"` // YYYY-MM-DD, trailing time ignored
	Time string `json:"time"` // HH:MM, trailing seconds ignored

	Competition string `json:"competition"`
	Stage       string `json:"stage,omitempty"`

	Temperature   *float64 `json:"temperature,omitempty"`
	Precipitation *float64 `json:"precipitation,omitempty"`
	Season        *string  `json:"season,omitempty"`

	IsHoliday      bool `json:"is_holiday,omitempty"`
	CompetingEvent bool `json:"competing_event,omitempty"`
	Matchday       *int `json:"matchday,omitempty"`

	Members          int    `json:"members"`
	Form             string `json:"form"`
	HomePosition     int    `json:"home_position"`
	OpponentPosition int    `json:"opponent_position"`
	IsDerby          bool   `json:"is_derby,omitempty"`

	BaseClicks *int `json:"base_clicks,omitempty"`
}

// WeatherInput returns the weather scorer input.
func (r EventRow) WeatherInput() scoring.WeatherInput {
	return scoring.WeatherInput{
		Temperature:   r.Temperature,
		Precipitation: r.Precipitation,
		Season:        r.Season,
	}
}

// CompetitionInput returns the competition scorer input.
func (r EventRow) CompetitionInput() scoring.CompetitionInput {
	return scoring.CompetitionInput{Competition: r.Competition, Stage: r.Stage}
}

// DateTimeInput parses the date and time columns into the date/time scorer input.
// A missing matchday falls back to scoring.DefaultMatchday.
func (r EventRow) DateTimeInput() (scoring.DateTimeInput, error) {
	date, err := scoring.ParseDate(r.Date)
	if err != nil {
		return scoring.DateTimeInput{}, err
	}
	kickoff, err := scoring.ParseClock(r.Time)
	if err != nil {
		return scoring.DateTimeInput{}, err
	}
	matchday := scoring.DefaultMatchday
	if r.Matchday != nil {
		matchday = *r.Matchday
	}
	return scoring.DateTimeInput{
		Date:           date,
		Kickoff:        kickoff,
		IsHoliday:      r.IsHoliday,
		CompetingEvent: r.CompetingEvent,
		Matchday:       matchday,
	}, nil
}

// TeamInput returns the team scorer input.
func (r EventRow) TeamInput() scoring.TeamInput {
	return scoring.TeamInput{
		Members:          r.Members,
		Form:             r.Form,
		HomePosition:     r.HomePosition,
		OpponentPosition: r.OpponentPosition,
		IsDerby:          r.IsDerby,
	}
}

// Clicks returns the row's base click volume, or def when unset.
func (r EventRow) Clicks(def int) int {
	if r.BaseClicks != nil {
		return *r.BaseClicks
	}
	return def
}

// ScoreRecord is the scored output for one event row.
type ScoreRecord struct {
	EventID          string  `json:"event_id"`
	DateScore        float64 `json:"date_score"`
	CompetitionScore float64 `json:"competition_score"`
	TeamScore        float64 `json:"team_score"`
	WeatherScore     float64 `json:"weather_score"`
	BaseClicks       int     `json:"base_clicks"`
	Clicks           int     `json:"clicks"`
}

// Scores returns the sub-scores in the shape the synthesizer consumes.
func (s ScoreRecord) Scores() scoring.Scores {
	return scoring.Scores{
		Date:        s.DateScore,
		Competition: s.CompetitionScore,
		Team:        s.TeamScore,
		Weather:     s.WeatherScore,
	}
}
