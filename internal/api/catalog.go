package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/fretboard-go/internal/theory"
)

// ScaleOption is a catalog scale with its display name
type ScaleOption struct {
	theory.NamedScale
	DisplayName string `json:"display_name"`
}

// GetScales lists the scale catalog grouped in display order
func (c *Controller) GetScales(ctx echo.Context) error {
	scales := theory.Scales()
	options := make([]ScaleOption, len(scales))
	for i, s := range scales {
		options[i] = ScaleOption{NamedScale: s, DisplayName: theory.ScaleName(s.ID)}
	}
	return ctx.JSON(http.StatusOK, options)
}

// GetTunings lists the tuning catalog
func (c *Controller) GetTunings(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, theory.Tunings())
}

// GetRoots lists the selectable root notes
func (c *Controller) GetRoots(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, theory.Roots())
}
