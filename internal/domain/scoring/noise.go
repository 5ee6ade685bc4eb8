package scoring

import (
	"math/rand"
	"sync"
)

// Default noise distribution for synthesized clicks.
const (
	DefaultNoiseMean   = 0.0
	DefaultNoiseStdDev = 200.0
)

// NoiseSource yields the perturbation added to each synthesized click count.
type NoiseSource interface {
	Next() float64
}

// ConstantNoise always yields the same value. It is the deterministic stub
// used for tests and replays.
type ConstantNoise float64

// Next returns the constant.
func (c ConstantNoise) Next() float64 { return float64(c) }

// GaussianNoise draws from a normal distribution. It is safe for concurrent use.
type GaussianNoise struct {
	mu     sync.Mutex
	rng    *rand.Rand
	mean   float64
	stdDev float64
}

// NewGaussianNoise returns a normal noise source seeded with seed.
func NewGaussianNoise(mean, stdDev float64, seed int64) *GaussianNoise {
	return &GaussianNoise{
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // synthetic features, not security sensitive
		mean:   mean,
		stdDev: stdDev,
	}
}

// Next draws one sample.
func (g *GaussianNoise) Next() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mean + g.rng.NormFloat64()*g.stdDev
}
