package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/datastore"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/mqtt"
	"github.com/tphakala/fretboard-go/internal/session"
	"github.com/tphakala/fretboard-go/internal/theory"
)

// TestMain verifies no goroutines outlive the tests. go-cache janitors
// cannot be stopped and are ignored.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.RateLimit.Enabled = false
	cfg.ExerciseSeed = 42
	return cfg
}

// fakePublisher collects published answers
type fakePublisher struct {
	mu       sync.Mutex
	messages []mqtt.AnswerMessage
}

func (f *fakePublisher) PublishAnswer(_ context.Context, msg mqtt.AnswerMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakePublisher) published() []mqtt.AnswerMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mqtt.AnswerMessage(nil), f.messages...)
}

// newTestController registers a controller on a fresh Echo instance
func newTestController(t *testing.T, opts ...Option) (*echo.Echo, *Controller) {
	t.Helper()
	e := echo.New()
	opts = append([]Option{WithLogger(testLogger())}, opts...)
	c, err := New(e, testConfig(), session.DefaultSettings(), opts...)
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)
	return e, c
}

// newTestStore opens an in-memory SQLite datastore
func newTestStore(t *testing.T) datastore.Interface {
	t.Helper()
	ds, err := datastore.New(&conf.DatabaseSettings{
		SQLite: conf.SQLiteSettings{Enabled: true, Path: datastore.MemoryPath},
	}, testLogger())
	require.NoError(t, err)
	require.NoError(t, ds.Open())
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

// do sends a request through the router and returns the recorder
func do(t *testing.T, e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestConfigFromSettings(t *testing.T) {
	t.Parallel()

	settings := &conf.Settings{}
	settings.WebServer.Port = "9090"
	settings.WebServer.SessionTTL = time.Minute
	settings.Metrics.Enabled = true
	settings.Metrics.Path = "/prom"
	settings.Main.Profile = "studio"
	settings.Exercise.Seed = 7

	cfg := ConfigFromSettings(settings)
	assert.Equal(t, ":9090", cfg.Address())
	assert.Equal(t, time.Minute, cfg.SessionTTL)
	assert.Equal(t, DefaultViewCacheTTL, cfg.ViewCacheTTL)
	assert.Equal(t, "/prom", cfg.MetricsPath)
	assert.Equal(t, "studio", cfg.Profile)
	assert.Equal(t, uint64(7), cfg.ExerciseSeed)
	assert.False(t, cfg.RateLimit.Enabled)
	require.NoError(t, cfg.Validate())

	cfg.Port = ""
	require.Error(t, cfg.Validate())
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t, WithVersion("1.2.3"))
	rec := do(t, e, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Nil(t, resp.Datastore)

	e, _ = newTestController(t, WithDataStore(newTestStore(t)))
	rec = do(t, e, http.MethodGet, APIPrefix+"/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[HealthResponse](t, rec)
	require.NotNil(t, resp.Datastore)
	assert.Equal(t, "sqlite", resp.Datastore.Driver)
	assert.Equal(t, "ok", resp.Datastore.Status)
}

func TestHealthCheckDegraded(t *testing.T) {
	t.Parallel()

	ds := newTestStore(t)
	e, _ := newTestController(t, WithDataStore(ds))
	require.NoError(t, ds.Close())

	rec := do(t, e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decode[HealthResponse](t, rec).Status)
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t)

	rec := do(t, e, http.MethodGet, APIPrefix+"/catalog/scales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	scales := decode[[]ScaleOption](t, rec)
	require.Len(t, scales, len(theory.Scales()))
	assert.Equal(t, "minor-pentatonic", scales[1].Slug)
	assert.Equal(t, "Minor Pentatonic", scales[1].DisplayName)

	rec = do(t, e, http.MethodGet, APIPrefix+"/catalog/tunings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tunings := decode[[]theory.NamedTuning](t, rec)
	assert.Equal(t, "E-A-D-G-B-E", tunings[0].ID)

	rec = do(t, e, http.MethodGet, APIPrefix+"/catalog/roots", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	roots := decode[[]string](t, rec)
	assert.Equal(t, "Cb", roots[0])
	assert.Contains(t, roots, "F#")
}

func TestErrorResponseShape(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t)
	rec := do(t, e, http.MethodPut, APIPrefix+"/settings", map[string]any{"root": "H"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Settings rejected", resp.Message)
	assert.NotEmpty(t, resp.Error)
	assert.Len(t, resp.CorrelationID, 8)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RateLimit = conf.RateLimitSettings{Enabled: true, Rate: 0.001, Burst: 1, ExpiresIn: time.Minute}

	e := echo.New()
	c, err := New(e, cfg, session.DefaultSettings(), WithLogger(testLogger()))
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)

	first := do(t, e, http.MethodGet, APIPrefix+"/catalog/roots", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	second := do(t, e, http.MethodGet, APIPrefix+"/catalog/roots", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// probes are never limited
	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/health", nil).Code)
}
