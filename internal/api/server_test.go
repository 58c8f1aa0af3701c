package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/fretboard-go/internal/observability"
	"github.com/tphakala/fretboard-go/internal/session"
)

func TestServerMetricsEndpoint(t *testing.T) {
	t.Parallel()

	m, err := observability.NewMetrics()
	require.NoError(t, err)

	s, err := NewServer(testConfig(), session.DefaultSettings(), WithMetrics(m), WithLogger(testLogger()))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, do(t, s.Echo(), http.MethodGet, APIPrefix+"/catalog/roots", nil).Code)
	require.Equal(t, http.StatusBadRequest, do(t, s.Echo(), http.MethodGet, APIPrefix+"/positions/x/1", nil).Code)

	rec := do(t, s.Echo(), http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/v1/catalog/roots",status_code="200"} 1`)
	assert.Contains(t, body, "http_request_errors_total")
	assert.Contains(t, body, "exercise_active_sessions")
}

func TestServerMetricsDisabled(t *testing.T) {
	t.Parallel()

	m, err := observability.NewMetrics()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.MetricsEnabled = false
	s, err := NewServer(cfg, session.DefaultSettings(), WithMetrics(m), WithLogger(testLogger()))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, do(t, s.Echo(), http.MethodGet, "/metrics", nil).Code)
}

func TestServerRejectsInvalidInitialSettings(t *testing.T) {
	t.Parallel()

	bad := session.DefaultSettings()
	bad.Tuning = "X-Y-Z"
	_, err := NewServer(testConfig(), bad, WithLogger(testLogger()))
	require.Error(t, err)
}

func TestServerRunAndShutdown(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = "0"
	s, err := NewServer(cfg, session.DefaultSettings(), WithLogger(testLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Echo().ListenerAddr() != nil },
		5*time.Second, 10*time.Millisecond)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + s.Echo().ListenerAddr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
