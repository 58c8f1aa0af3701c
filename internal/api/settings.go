package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/fretboard-go/internal/datastore"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/observability/metrics"
	"github.com/tphakala/fretboard-go/internal/session"
)

// SettingsResponse is the current settings with the profile they belong to
type SettingsResponse struct {
	Profile   string           `json:"profile"`
	Persisted bool             `json:"persisted"`
	Settings  session.Settings `json:"settings"`
}

// currentSettings returns a copy of the applied settings
func (c *Controller) currentSettings() session.Settings {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	return c.session.Settings()
}

func (c *Controller) settingsResponse(s session.Settings) SettingsResponse {
	return SettingsResponse{Profile: c.config.Profile, Persisted: c.DS != nil, Settings: s}
}

// GetSettings returns the applied settings
func (c *Controller) GetSettings(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.settingsResponse(c.currentSettings()))
}

// UpdateSettings merges the request body over the applied settings, validates
// the result, persists it and applies it. Fields missing from the body keep
// their current values. Rejected settings leave everything unchanged.
func (c *Controller) UpdateSettings(ctx echo.Context) error {
	s := c.currentSettings()
	if err := ctx.Bind(&s); err != nil {
		c.recordSettings(metrics.StatusError)
		return c.HandleError(ctx, err, "Invalid settings body", http.StatusBadRequest)
	}
	if err := s.Validate(); err != nil {
		c.recordSettings(metrics.StatusError)
		return c.fail(ctx, err, "Settings rejected")
	}

	if err := c.persist(ctx, s); err != nil {
		c.recordSettings(metrics.StatusError)
		return c.fail(ctx, err, "Failed to save settings")
	}

	c.sessionMu.Lock()
	err := c.session.Apply(s)
	c.sessionMu.Unlock()
	if err != nil {
		c.recordSettings(metrics.StatusError)
		return c.fail(ctx, err, "Settings rejected")
	}

	c.recordSettings(metrics.StatusSuccess)
	c.logger.Info("settings applied",
		logger.String("profile", c.config.Profile),
		logger.String("root", s.Root),
		logger.String("scale", s.Scale),
		logger.String("tuning", s.Tuning))
	return ctx.JSON(http.StatusOK, c.settingsResponse(s))
}

// ResetSettings restores the defaults and forgets the stored profile
func (c *Controller) ResetSettings(ctx echo.Context) error {
	if c.DS != nil {
		if err := c.DS.DeleteSettings(ctx.Request().Context(), c.config.Profile); err != nil {
			return c.fail(ctx, err, "Failed to delete settings")
		}
	}

	defaults := session.DefaultSettings()
	c.sessionMu.Lock()
	err := c.session.Apply(defaults)
	c.sessionMu.Unlock()
	if err != nil {
		return c.fail(ctx, err, "Failed to restore defaults")
	}

	c.recordSettings(metrics.StatusSuccess)
	return ctx.JSON(http.StatusOK, c.settingsResponse(defaults))
}

// ListProfiles lists the stored settings profiles
func (c *Controller) ListProfiles(ctx echo.Context) error {
	if c.DS == nil {
		return c.fail(ctx, notConfigured("datastore"), "Settings profiles are unavailable")
	}
	profiles, err := c.DS.ListProfiles(ctx.Request().Context())
	if err != nil {
		return c.fail(ctx, err, "Failed to list profiles")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"current":  c.config.Profile,
		"profiles": profiles,
	})
}

// persist stores s under the configured profile when a datastore is present
func (c *Controller) persist(ctx echo.Context, s session.Settings) error {
	if c.DS == nil {
		return nil
	}
	blob, err := session.Encode(s)
	if err != nil {
		return err
	}
	return c.DS.SaveSettings(ctx.Request().Context(), c.config.Profile, blob)
}

func (c *Controller) recordSettings(status string) {
	if c.metrics != nil {
		c.metrics.Fretboard.RecordSettingsApplied(status)
	}
}

// LoadSettings reads the stored profile from ds. A missing profile yields
// the defaults; an unusable blob is logged and replaced by the defaults.
func LoadSettings(ctx context.Context, ds datastore.Interface, profile string, log logger.Logger) session.Settings {
	if ds == nil {
		return session.DefaultSettings()
	}
	blob, err := ds.LoadSettings(ctx, profile)
	switch {
	case errors.Is(err, datastore.ErrProfileNotFound):
		log.Info("no stored settings, using defaults", logger.String("profile", profile))
		return session.DefaultSettings()
	case err != nil:
		log.Warn("stored settings unreadable, using defaults",
			logger.String("profile", profile),
			logger.Error(err))
		return session.DefaultSettings()
	}
	return session.Restore(blob, log)
}
