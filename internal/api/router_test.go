package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LJTian/NewsHub/internal/scheduler"
	"github.com/LJTian/NewsHub/internal/source"
	"github.com/LJTian/NewsHub/internal/trend"
)

type fakeDispatcher struct {
	triggered []string
	err       error
	trendErr  error
}

func (f *fakeDispatcher) Sources() []source.Descriptor {
	return []source.Descriptor{{Name: "Wire", Tier: source.TierBreaking, Region: "Global"}}
}

func (f *fakeDispatcher) Trigger(name string) error {
	if name != "Wire" {
		return fmt.Errorf("%w: %s", source.ErrUnknownSource, name)
	}
	if f.err != nil {
		return f.err
	}
	f.triggered = append(f.triggered, name)
	return nil
}

func (f *fakeDispatcher) TriggerTrends() error { return f.trendErr }

type fakeTopics struct {
	topics []trend.Topic
	err    error
}

func (f fakeTopics) TrendingTopics(context.Context) ([]trend.Topic, error) {
	return f.topics, f.err
}

func newEngine(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	s.RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newEngine(NewServer(&fakeDispatcher{}, nil, Options{}))
	w := do(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "newshub_test_total", Help: "test counter"})
	reg.MustRegister(c)
	c.Inc()

	r := newEngine(NewServer(&fakeDispatcher{}, nil, Options{Gatherer: reg}))
	w := do(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "newshub_test_total 1")
}

func TestListSources(t *testing.T) {
	r := newEngine(NewServer(&fakeDispatcher{}, nil, Options{}))
	w := do(r, http.MethodGet, "/api/v1/sources")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code string              `json:"code"`
		Data []source.Descriptor `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Code)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Wire", body.Data[0].Name)
}

func TestRunSource(t *testing.T) {
	d := &fakeDispatcher{}
	r := newEngine(NewServer(d, nil, Options{}))

	w := do(r, http.MethodPost, "/api/v1/sources/Wire/run")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"Wire"}, d.triggered)

	w = do(r, http.MethodPost, "/api/v1/sources/Nope/run")
	assert.Equal(t, http.StatusNotFound, w.Code)

	d.err = scheduler.ErrQueueFull
	w = do(r, http.MethodPost, "/api/v1/sources/Wire/run")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	d.err = errors.New("weird")
	w = do(r, http.MethodPost, "/api/v1/sources/Wire/run")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRunTrends(t *testing.T) {
	d := &fakeDispatcher{}
	r := newEngine(NewServer(d, nil, Options{}))
	assert.Equal(t, http.StatusAccepted, do(r, http.MethodPost, "/api/v1/trends/run").Code)

	d.trendErr = scheduler.ErrQueueFull
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/api/v1/trends/run").Code)
}

func TestListTrends(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	topics := fakeTopics{topics: []trend.Topic{{Topic: "Election", ArticleCount: 3, LastUpdated: now}}}
	r := newEngine(NewServer(&fakeDispatcher{}, topics, Options{}))

	w := do(r, http.MethodGet, "/api/v1/trends")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []trend.Topic `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Election", body.Data[0].Topic)

	r = newEngine(NewServer(&fakeDispatcher{}, fakeTopics{err: errors.New("down")}, Options{}))
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/api/v1/trends").Code)
}

func TestBasicAuth(t *testing.T) {
	r := newEngine(NewServer(&fakeDispatcher{}, nil, Options{BasicAuthUser: "ops", BasicAuthPass: "secret"}))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/sources").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health").Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil)
	req.SetBasicAuth("ops", "secret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
