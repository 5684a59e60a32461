package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSendsUserAgentAndCapsBody(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	c := New(Options{UserAgent: "test-agent", MaxBodyBytes: 10})
	body, err := c.Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "test-agent", gotUA)
	assert.Len(t, body, 10)
}

func TestGetNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(Options{}).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestGetTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(Options{Timeout: 20 * time.Millisecond}).Get(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestLimiterPerHost(t *testing.T) {
	c := New(Options{HostRPS: 1})
	a := c.limiter("a.test")
	assert.Same(t, a, c.limiter("a.test"))
	assert.NotSame(t, a, c.limiter("b.test"))

	assert.Nil(t, New(Options{}).limiter("a.test"))
}
