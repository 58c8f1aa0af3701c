package api

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/session"
)

func TestGetSettings(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t)
	rec := do(t, e, http.MethodGet, APIPrefix+"/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[SettingsResponse](t, rec)
	assert.Equal(t, "default", resp.Profile)
	assert.False(t, resp.Persisted)
	assert.Equal(t, session.DefaultSettings(), resp.Settings)
	assert.Contains(t, rec.Body.String(), `"firstFret":5`)
}

func TestUpdateSettingsMergesAndPersists(t *testing.T) {
	t.Parallel()

	ds := newTestStore(t)
	e, c := newTestController(t, WithDataStore(ds))

	rec := do(t, e, http.MethodPut, APIPrefix+"/settings", map[string]any{
		"root":        "E",
		"openStrings": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[SettingsResponse](t, rec)
	assert.True(t, resp.Persisted)
	assert.Equal(t, "E", resp.Settings.Root)
	assert.True(t, resp.Settings.OpenStrings)
	assert.Equal(t, session.DefaultScale, resp.Settings.Scale, "omitted fields keep their values")
	assert.Equal(t, resp.Settings, c.currentSettings())

	restored := LoadSettings(t.Context(), ds, "default", testLogger())
	assert.Equal(t, resp.Settings, restored)
}

func TestUpdateSettingsRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body any
		code int
	}{
		{"unknown root", map[string]any{"root": "H"}, http.StatusBadRequest},
		{"bad scale", map[string]any{"scale": "1-9"}, http.StatusBadRequest},
		{"unspellable root", map[string]any{"root": "B##"}, http.StatusBadRequest},
		{"bad labels", map[string]any{"labels": "colors"}, http.StatusBadRequest},
		{"fret beyond the neck", map[string]any{"lastFret": 40}, http.StatusUnprocessableEntity},
		{"inverted window", map[string]any{"firstFret": 9, "lastFret": 3}, http.StatusUnprocessableEntity},
		{"malformed json", `{"root":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds := newTestStore(t)
			e, c := newTestController(t, WithDataStore(ds))

			rec := do(t, e, http.MethodPut, APIPrefix+"/settings", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Equal(t, session.DefaultSettings(), c.currentSettings(), "rejected settings are not applied")

			profiles, err := ds.ListProfiles(t.Context())
			require.NoError(t, err)
			assert.Empty(t, profiles, "rejected settings are not persisted")
		})
	}
}

func TestResetSettings(t *testing.T) {
	t.Parallel()

	ds := newTestStore(t)
	e, c := newTestController(t, WithDataStore(ds))

	require.Equal(t, http.StatusOK, do(t, e, http.MethodPut, APIPrefix+"/settings", map[string]any{"root": "C"}).Code)

	rec := do(t, e, http.MethodDelete, APIPrefix+"/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.DefaultSettings(), c.currentSettings())

	profiles, err := ds.ListProfiles(t.Context())
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestListProfiles(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t)
	rec := do(t, e, http.MethodGet, APIPrefix+"/settings/profiles", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ds := newTestStore(t)
	require.NoError(t, ds.SaveSettings(t.Context(), "practice", []byte("{}")))
	e, _ = newTestController(t, WithDataStore(ds))

	rec = do(t, e, http.MethodGet, APIPrefix+"/settings/profiles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "default", resp["current"])
	assert.Equal(t, []any{"practice"}, resp["profiles"])
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, session.DefaultSettings(), LoadSettings(t.Context(), nil, "default", testLogger()))

	ds := newTestStore(t)
	assert.Equal(t, session.DefaultSettings(), LoadSettings(t.Context(), ds, "missing", testLogger()))

	var buf bytes.Buffer
	log := logger.NewSlogLogger(&buf, logger.LogLevelDebug, time.UTC)
	require.NoError(t, ds.SaveSettings(t.Context(), "broken", []byte("not json")))
	assert.Equal(t, session.DefaultSettings(), LoadSettings(t.Context(), ds, "broken", log))
	assert.Contains(t, buf.String(), "level=WARN")

	custom := session.DefaultSettings()
	custom.Root = "G"
	custom.Tuning = "D-A-D-G-B-E"
	blob, err := session.Encode(custom)
	require.NoError(t, err)
	require.NoError(t, ds.SaveSettings(t.Context(), "custom", blob))
	assert.Equal(t, custom, LoadSettings(t.Context(), ds, "custom", testLogger()))
}
