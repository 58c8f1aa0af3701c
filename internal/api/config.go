// Package api provides the HTTP JSON interface to the fretboard session,
// the exercises and the Prometheus endpoint.
package api

import (
	"net"
	"time"

	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/exercise"
	"github.com/tphakala/fretboard-go/internal/logger"
)

// GetLogger returns the api package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("api")
}

// Default constants for the HTTP server.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultViewCacheTTL    = 10 * time.Minute
	DefaultSessionTTL      = 30 * time.Minute

	// APIPrefix is the route group every JSON endpoint lives under
	APIPrefix = "/api/v1"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host string
	Port string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BodyLimit string // e.g. "64K"

	ViewCacheTTL time.Duration
	SessionTTL   time.Duration

	RateLimit conf.RateLimitSettings

	MetricsEnabled bool
	MetricsPath    string

	// Profile is the settings profile read and written by the settings endpoints
	Profile string
	// ExerciseSeed makes question order reproducible when non-zero
	ExerciseSeed uint64
	// DefaultExercise is started when a request names no kind
	DefaultExercise exercise.Kind

	Debug bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            "8080",
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		BodyLimit:       "64K",
		ViewCacheTTL:    DefaultViewCacheTTL,
		SessionTTL:      DefaultSessionTTL,
		RateLimit: conf.RateLimitSettings{
			Enabled:   true,
			Rate:      20,
			Burst:     40,
			ExpiresIn: 3 * time.Minute,
		},
		MetricsEnabled:  true,
		MetricsPath:     "/metrics",
		Profile:         "default",
		DefaultExercise: exercise.KindMarkNote,
	}
}

// ConfigFromSettings bridges conf.Settings to the server config. Zero
// durations keep their defaults.
func ConfigFromSettings(settings *conf.Settings) *Config {
	cfg := DefaultConfig()
	ws := settings.WebServer

	cfg.Host = ws.Host
	if ws.Port != "" {
		cfg.Port = ws.Port
	}
	if ws.ReadTimeout > 0 {
		cfg.ReadTimeout = ws.ReadTimeout
	}
	if ws.WriteTimeout > 0 {
		cfg.WriteTimeout = ws.WriteTimeout
	}
	if ws.ViewCacheTTL > 0 {
		cfg.ViewCacheTTL = ws.ViewCacheTTL
	}
	if ws.SessionTTL > 0 {
		cfg.SessionTTL = ws.SessionTTL
	}
	cfg.RateLimit = ws.RateLimit

	cfg.MetricsEnabled = settings.Metrics.Enabled
	if settings.Metrics.Path != "" {
		cfg.MetricsPath = settings.Metrics.Path
	}
	if settings.Main.Profile != "" {
		cfg.Profile = settings.Main.Profile
	}
	cfg.ExerciseSeed = settings.Exercise.Seed
	if settings.Exercise.DefaultKind != "" {
		cfg.DefaultExercise = exercise.Kind(settings.Exercise.DefaultKind)
	}
	cfg.Debug = settings.Debug
	return cfg
}

// Address returns the listen address
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.Newf("port is required").
			Component("api").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if c.RateLimit.Enabled && c.RateLimit.Rate <= 0 {
		return errors.Newf("rate limit must be positive, got %v", c.RateLimit.Rate).
			Component("api").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if c.Profile == "" {
		return errors.Newf("settings profile name is required").
			Component("api").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return nil
}
