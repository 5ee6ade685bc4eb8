// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/kickoff/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// MetricsAddr serves /metrics while a run is in progress. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	// BaseClicks is the click volume used for rows without base_clicks.
	BaseClicks int `koanf:"base_clicks"`

	// ClickScale converts a weighted sum of 1 into clicks.
	ClickScale float64 `koanf:"click_scale"`

	// NoiseMean and NoiseStdDev parametrize the normal click noise.
	NoiseMean   float64 `koanf:"noise_mean"`
	NoiseStdDev float64 `koanf:"noise_stddev"`

	// NoiseSeed seeds the noise source. Zero picks a time-based seed.
	NoiseSeed int64 `koanf:"noise_seed"`

	// Dimension weights of the demand signal.
	DateWeight        float64 `koanf:"date_weight"`
	CompetitionWeight float64 `koanf:"competition_weight"`
	TeamWeight        float64 `koanf:"team_weight"`
	WeatherWeight     float64 `koanf:"weather_weight"`

	// FailFast aborts a run on the first malformed row instead of skipping it.
	FailFast bool `koanf:"fail_fast"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	w := scoring.DefaultWeights()
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		MetricsAddr:       "",
		BaseClicks:        scoring.DefaultBaseClicks,
		ClickScale:        scoring.DefaultClickScale,
		NoiseMean:         scoring.DefaultNoiseMean,
		NoiseStdDev:       scoring.DefaultNoiseStdDev,
		NoiseSeed:         0,
		DateWeight:        w.Date,
		CompetitionWeight: w.Competition,
		TeamWeight:        w.Team,
		WeatherWeight:     w.Weather,
		FailFast:          false,
	}
}

// Weights returns the configured dimension weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		Date:        c.DateWeight,
		Competition: c.CompetitionWeight,
		Team:        c.TeamWeight,
		Weather:     c.WeatherWeight,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case c.NoiseStdDev < 0:
		return fmt.Errorf("%w: noise_stddev must not be negative", ErrInvalidConfig)
	case c.ClickScale <= 0:
		return fmt.Errorf("%w: click_scale must be positive", ErrInvalidConfig)
	case c.BaseClicks < 0:
		return fmt.Errorf("%w: base_clicks must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
