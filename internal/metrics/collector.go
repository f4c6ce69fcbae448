package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/finsight/finsight/internal/pipeline"
)

// Registry holds all Prometheus metrics for FinSight
type Registry struct {
	// Pipeline metrics
	StepDuration *prometheus.HistogramVec
	StepsTotal   *prometheus.CounterVec
	RunsTotal    *prometheus.CounterVec
	ActiveRuns   prometheus.Gauge

	// Scoring metrics
	HeadlinesScored prometheus.Counter
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec

	// Fetcher metrics
	FetchRequests *prometheus.CounterVec
	FetchArticles prometheus.Counter
}

var (
	defaultRegistry *Registry
	registerOnce    sync.Once
)

// NewRegistry creates the metric set and registers it with the given registerer
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsight_step_duration_seconds",
				Help:    "Duration of each pipeline step in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"step", "result"},
		),
		StepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_pipeline_steps_total",
				Help: "Total number of pipeline steps executed",
			},
			[]string{"step", "status"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_pipeline_runs_total",
				Help: "Total number of pipeline runs",
			},
			[]string{"status"},
		),
		ActiveRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "finsight_active_runs",
				Help: "Number of pipeline runs currently executing",
			},
		),
		HeadlinesScored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "finsight_headlines_scored_total",
				Help: "Total number of headlines scored",
			},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_cache_hits_total",
				Help: "Total number of cache hits by cache type",
			},
			[]string{"cache_type"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_cache_misses_total",
				Help: "Total number of cache misses by cache type",
			},
			[]string{"cache_type"},
		),
		FetchRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_fetch_requests_total",
				Help: "Total number of fetch requests by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		FetchArticles: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "finsight_fetch_articles_total",
				Help: "Total number of articles collected by the fetcher",
			},
		),
	}

	reg.MustRegister(
		r.StepDuration, r.StepsTotal, r.RunsTotal, r.ActiveRuns,
		r.HeadlinesScored, r.CacheHits, r.CacheMisses,
		r.FetchRequests, r.FetchArticles,
	)

	return r
}

// Default returns the process-wide registry backed by prometheus.DefaultRegisterer
func Default() *Registry {
	registerOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// RunStarted implements pipeline.EventSink
func (r *Registry) RunStarted(runID string) {
	r.ActiveRuns.Inc()
}

// StepStarted implements pipeline.EventSink
func (r *Registry) StepStarted(runID, step string) {}

// StepCompleted implements pipeline.EventSink
func (r *Registry) StepCompleted(runID string, result pipeline.StepResult) {
	status := "success"
	if !result.Success {
		status = "failure"
	}
	r.StepsTotal.WithLabelValues(result.Step, status).Inc()
	r.StepDuration.WithLabelValues(result.Step, status).Observe(result.Duration.Seconds())
}

// RunCompleted implements pipeline.EventSink
func (r *Registry) RunCompleted(result pipeline.RunResult) {
	r.ActiveRuns.Dec()
	status := "success"
	if !result.Success {
		status = "failure"
	}
	r.RunsTotal.WithLabelValues(status).Inc()
}
