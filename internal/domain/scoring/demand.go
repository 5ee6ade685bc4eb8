package scoring

import (
	"math"
	"time"
)

// Default synthesizer parameters.
const (
	DefaultBaseClicks = 1000
	DefaultClickScale = 4000.0
)

// Weights are the per-dimension weights of the demand signal. The defaults
// sum to 0.9.
type Weights struct {
	Date        float64
	Competition float64
	Team        float64
	Weather     float64
}

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{Date: 0.2, Competition: 0.3, Team: 0.2, Weather: 0.2}
}

// Scores is the set of sub-scores for one event.
type Scores struct {
	Date        float64
	Competition float64
	Team        float64
	Weather     float64
}

// Option applies a configuration option to the Synthesizer.
type Option func(*Synthesizer)

// WithWeights overrides the dimension weights.
func WithWeights(w Weights) Option {
	return func(s *Synthesizer) {
		s.weights = w
	}
}

// WithClickScale sets how many clicks a weighted sum of 1 is worth.
func WithClickScale(scale float64) Option {
	return func(s *Synthesizer) {
		if scale > 0 {
			s.scale = scale
		}
	}
}

// WithNoise sets the noise source.
func WithNoise(n NoiseSource) Option {
	return func(s *Synthesizer) {
		if n != nil {
			s.noise = n
		}
	}
}

// Synthesizer turns sub-scores into a simulated ticket-click count.
type Synthesizer struct {
	weights Weights
	scale   float64
	noise   NoiseSource
}

// NewSynthesizer creates a synthesizer. Without WithNoise it draws normal
// noise (mean 0, stddev 200) from a time-seeded source.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		weights: DefaultWeights(),
		scale:   DefaultClickScale,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.noise == nil {
		s.noise = NewGaussianNoise(DefaultNoiseMean, DefaultNoiseStdDev, time.Now().UnixNano())
	}
	return s
}

// WeightedSum returns the weighted combination of the sub-scores.
func (s *Synthesizer) WeightedSum(sc Scores) float64 {
	sum := sc.Date*s.weights.Date +
		sc.Competition*s.weights.Competition +
		sc.Team*s.weights.Team +
		sc.Weather*s.weights.Weather
	// Sub-scores carry at most three decimals; snapping drops binary
	// representation error so 0.7+0.2 contributes exactly 0.9.
	return round(sum, weightedSumPrecision)
}

// Synthesize returns floor(baseClicks + weighted*scale + noise). It draws
// exactly one noise sample per call.
func (s *Synthesizer) Synthesize(sc Scores, baseClicks int) int {
	clicks := float64(baseClicks) + s.WeightedSum(sc)*s.scale + s.noise.Next()
	return int(math.Floor(clicks))
}
