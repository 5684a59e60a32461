package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/LJTian/NewsHub/internal/processor"
)

func TestOutcomeAndSourceRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Outcome("BBC", processor.OutcomeAdded)
	m.Outcome("BBC", processor.OutcomeAdded)
	m.Outcome("BBC", processor.OutcomeDuplicate)
	m.SourceRun("BBC", 2, 3*time.Second)
	m.SourceRun("BBC", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.candidates.WithLabelValues("BBC", "added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.candidates.WithLabelValues("BBC", "duplicate")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.articles.WithLabelValues("BBC")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sourceRuns.WithLabelValues("BBC")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.runDuration))
}

func TestDroppedAndTrend(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.DroppedJob("CNN")
	m.TrendRun(7, nil)
	m.TrendRun(3, errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.droppedJobs.WithLabelValues("CNN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trendRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trendRuns.WithLabelValues("error")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.trendTopics))
}

func TestRegistryExposesNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.DroppedJob("x")
	m.Outcome("x", processor.OutcomeError)

	families, err := reg.Gather()
	assert.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["scheduler_dropped_jobs_total"])
	assert.True(t, names["newshub_candidates_total"])
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Outcome("x", processor.OutcomeAdded)
		m.SourceRun("x", 1, time.Second)
		m.DroppedJob("x")
		m.TrendRun(1, nil)
	})
}

var _ processor.Recorder = (*Metrics)(nil)
