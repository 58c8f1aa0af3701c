package serve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/fretboard-go/internal/buildinfo"
	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/datastore"
	"github.com/tphakala/fretboard-go/internal/errors"
)

func testSettings() *conf.Settings {
	settings := &conf.Settings{}
	settings.Main.Name = "fretboard-test"
	settings.Main.Profile = "default"
	settings.WebServer.Enabled = true
	settings.WebServer.Host = "127.0.0.1"
	settings.WebServer.Port = "0"
	settings.Database.SQLite = conf.SQLiteSettings{Enabled: true, Path: datastore.MemoryPath}
	return settings
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, testSettings(), buildinfo.NewContext("test", "")) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunRequiresWebServer(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.WebServer.Enabled = false
	err := Run(t.Context(), settings, buildinfo.NewContext("", ""))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestRunRequiresDatabase(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Database.SQLite.Enabled = false
	require.Error(t, Run(t.Context(), settings, buildinfo.NewContext("", "")))
}

func TestInitTelemetry(t *testing.T) {
	settings := testSettings()
	settings.Telemetry.Enabled = true

	err := initTelemetry(settings, buildinfo.NewContext("1.0.0", ""))
	require.Error(t, err, "a dsn is required")

	settings.Telemetry.DSN = "https://public@sentry.example.com/1"
	require.NoError(t, initTelemetry(settings, buildinfo.NewContext("1.0.0", "")))
	t.Cleanup(func() { errors.SetTelemetryReporter(nil) })

	reporter := errors.GetTelemetryReporter()
	require.NotNil(t, reporter)
	assert.True(t, reporter.IsEnabled())
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	cmd := Command(settings, buildinfo.NewContext("", ""))
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9191", "--profile", "studio", "--seed", "11", "--mqtt"}))

	assert.Equal(t, "9191", settings.WebServer.Port)
	assert.Equal(t, "studio", settings.Main.Profile)
	assert.Equal(t, uint64(11), settings.Exercise.Seed)
	assert.True(t, settings.MQTT.Enabled)
}
