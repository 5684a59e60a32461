// Package metrics holds the Prometheus counters for the ingestion pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/LJTian/NewsHub/internal/processor"
)

const namespace = "newshub"

type Metrics struct {
	candidates  *prometheus.CounterVec
	articles    *prometheus.CounterVec
	sourceRuns  *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	droppedJobs *prometheus.CounterVec
	trendRuns   *prometheus.CounterVec
	trendTopics prometheus.Gauge
}

// New registers every collector on reg. A nil reg uses a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		candidates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Candidate links processed, by source and outcome.",
		}, []string{"source", "outcome"}),
		articles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_added_total",
			Help:      "Articles persisted, by source.",
		}, []string{"source"}),
		sourceRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_runs_total",
			Help:      "Completed per-source pipeline runs.",
		}, []string{"source"}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_run_seconds",
			Help:      "Wall time of per-source pipeline runs.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
		}, []string{"source"}),
		droppedJobs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Name:      "dropped_jobs_total",
			Help:      "Jobs dropped because the queue was full.",
		}, []string{"job"}),
		trendRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trend_runs_total",
			Help:      "Trend analyzer runs, by result.",
		}, []string{"result"}),
		trendTopics: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trending_topics",
			Help:      "Topics written by the last trend run.",
		}),
	}
}

func (m *Metrics) Outcome(source string, outcome processor.Outcome) {
	if m == nil {
		return
	}
	m.candidates.WithLabelValues(source, string(outcome)).Inc()
}

func (m *Metrics) SourceRun(source string, added int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sourceRuns.WithLabelValues(source).Inc()
	m.runDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if added > 0 {
		m.articles.WithLabelValues(source).Add(float64(added))
	}
}

func (m *Metrics) DroppedJob(job string) {
	if m == nil {
		return
	}
	m.droppedJobs.WithLabelValues(job).Inc()
}

// TrendRun records one analyzer run; topics is ignored when err is set.
func (m *Metrics) TrendRun(topics int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.trendRuns.WithLabelValues("error").Inc()
		return
	}
	m.trendRuns.WithLabelValues("ok").Inc()
	m.trendTopics.Set(float64(topics))
}
