// Package metrics provides Prometheus metrics for the kickoff demand synthesizer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Score dimensions used as label values.
const (
	DimensionDate        = "date"
	DimensionCompetition = "competition"
	DimensionTeam        = "team"
	DimensionWeather     = "weather"
)

// Buckets for score and click histograms.
var (
	scoreBuckets = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 1.1, 1.2, 1.5}
	clickBuckets = []float64{500, 1000, 1500, 2000, 2500, 3000, 3500, 4000, 4500, 5000, 6000}
)

// Manager manages all Prometheus metrics for the synthesizer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	rowsScored   prometheus.Counter
	rowsRejected *prometheus.CounterVec
	derbyRows    prometheus.Counter
	subScores    *prometheus.HistogramVec
	clicks       prometheus.Histogram
	runDuration  prometheus.Histogram
	runsTotal    *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kickoff",
		subsystem:        "demand",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_scored_total",
		Help:      "Total number of event rows scored and synthesized",
	})

	m.rowsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_rejected_total",
			Help:      "Total number of event rows rejected, by reason",
		},
		[]string{"reason"},
	)

	m.derbyRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "derby_rows_total",
		Help:      "Total number of scored rows flagged as derbies",
	})

	m.subScores = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sub_score",
			Help:      "Distribution of sub-scores by dimension",
			Buckets:   scoreBuckets,
		},
		[]string{"dimension"},
	)

	m.clicks = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "synthesized_clicks",
		Help:      "Distribution of synthesized ticket clicks",
		Buckets:   clickBuckets,
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a pipeline run",
		Buckets:   m.histogramBuckets,
	})

	m.runsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total number of pipeline runs, by outcome",
		},
		[]string{"outcome"},
	)
}

// RecordRowScored records one successfully scored row and its sub-scores.
func RecordRowScored(date, competition, team, weather float64, clicks int, derby bool) {
	globalManager.rowsScored.Inc()
	globalManager.subScores.WithLabelValues(DimensionDate).Observe(date)
	globalManager.subScores.WithLabelValues(DimensionCompetition).Observe(competition)
	globalManager.subScores.WithLabelValues(DimensionTeam).Observe(team)
	globalManager.subScores.WithLabelValues(DimensionWeather).Observe(weather)
	globalManager.clicks.Observe(float64(clicks))
	if derby {
		globalManager.derbyRows.Inc()
	}
}

// RecordRowRejected records a row that could not be scored.
func RecordRowRejected(reason string) {
	globalManager.rowsRejected.WithLabelValues(reason).Inc()
}

// RecordRun records the outcome and duration of a pipeline run.
func RecordRun(outcome string, seconds float64) {
	globalManager.runsTotal.WithLabelValues(outcome).Inc()
	globalManager.runDuration.Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler exposes the custom registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
