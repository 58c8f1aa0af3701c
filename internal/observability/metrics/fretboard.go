package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// FretboardMetrics covers fretboard views, clicks and exercises
type FretboardMetrics struct {
	viewCacheHits    prometheus.Counter
	viewCacheMisses  prometheus.Counter
	viewsBuilt       prometheus.Counter
	clicksTotal      *prometheus.CounterVec
	settingsApplied  *prometheus.CounterVec
	questionsTotal   *prometheus.CounterVec
	answersTotal     *prometheus.CounterVec
	activeExercises  prometheus.Gauge
	viewBuildSeconds prometheus.Histogram
}

// NewFretboardMetrics creates and registers fretboard metrics
func NewFretboardMetrics(registry *prometheus.Registry) (*FretboardMetrics, error) {
	m := &FretboardMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *FretboardMetrics) initMetrics() {
	m.viewCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fretboard_view_cache_hits_total",
		Help: "Fretboard views served from cache",
	})
	m.viewCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fretboard_view_cache_misses_total",
		Help: "Fretboard views not found in cache",
	})
	m.viewsBuilt = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fretboard_views_built_total",
		Help: "Fretboard views computed from the theory model",
	})
	m.viewBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fretboard_view_build_duration_seconds",
		Help:    "Time taken to compute a fretboard view",
		Buckets: prometheus.ExponentialBuckets(BucketStart100us, BucketFactor2, BucketCount10),
	})
	m.clicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fretboard_clicks_total",
		Help: "Clicks on the fretboard by modifier and whether a marker was hit",
	}, []string{"ctrl", "hit"})
	m.settingsApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fretboard_settings_applied_total",
		Help: "Settings changes by outcome",
	}, []string{"status"})
	m.questionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exercise_questions_total",
		Help: "Questions asked by exercise kind",
	}, []string{"kind"})
	m.answersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exercise_answers_total",
		Help: "Graded answers by exercise kind and result",
	}, []string{"kind", "result"})
	m.activeExercises = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "exercise_active_sessions",
		Help: "Exercise sessions currently held in memory",
	})
}

// RecordViewCache records a cache lookup
func (m *FretboardMetrics) RecordViewCache(hit bool) {
	if hit {
		m.viewCacheHits.Inc()
		return
	}
	m.viewCacheMisses.Inc()
}

// RecordViewBuilt records a computed view and its duration
func (m *FretboardMetrics) RecordViewBuilt(seconds float64) {
	m.viewsBuilt.Inc()
	m.viewBuildSeconds.Observe(seconds)
}

func (m *FretboardMetrics) RecordClick(ctrl, hit bool) {
	m.clicksTotal.WithLabelValues(boolLabel(ctrl), boolLabel(hit)).Inc()
}

func (m *FretboardMetrics) RecordSettingsApplied(status string) {
	m.settingsApplied.WithLabelValues(status).Inc()
}

func (m *FretboardMetrics) RecordQuestion(kind string) {
	m.questionsTotal.WithLabelValues(kind).Inc()
}

// RecordAnswer records a graded answer
func (m *FretboardMetrics) RecordAnswer(kind string, correct bool) {
	result := ResultIncorrect
	if correct {
		result = ResultCorrect
	}
	m.answersTotal.WithLabelValues(kind, result).Inc()
}

// SetActiveExercises updates the live session gauge
func (m *FretboardMetrics) SetActiveExercises(count int) {
	m.activeExercises.Set(float64(count))
}

// ViewCacheHitRatio returns hits / (hits + misses), 0 before any lookup
func (m *FretboardMetrics) ViewCacheHitRatio() float64 {
	hits := counterValue(m.viewCacheHits)
	total := hits + counterValue(m.viewCacheMisses)
	if total == 0 {
		return 0
	}
	return hits / total
}

func counterValue(c prometheus.Counter) float64 {
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		return 0
	}
	if metric.Counter != nil && metric.Counter.Value != nil {
		return *metric.Counter.Value
	}
	return 0
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Describe implements the prometheus.Collector interface.
func (m *FretboardMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements the prometheus.Collector interface.
func (m *FretboardMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

func (m *FretboardMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.viewCacheHits,
		m.viewCacheMisses,
		m.viewsBuilt,
		m.viewBuildSeconds,
		m.clicksTotal,
		m.settingsApplied,
		m.questionsTotal,
		m.answersTotal,
		m.activeExercises,
	}
}
