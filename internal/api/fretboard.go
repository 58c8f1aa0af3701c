package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/layout"
	"github.com/tphakala/fretboard-go/internal/session"
	"github.com/tphakala/fretboard-go/internal/theory"
)

// FretboardResponse is the drawable view of the applied settings
type FretboardResponse struct {
	Settings session.Settings  `json:"settings"`
	Markers  []session.Marker  `json:"markers"`
	Geometry *layout.Geometry  `json:"geometry,omitempty"`
	Frets    []FretMarkerEntry `json:"fret_markers"`
}

// FretMarkerEntry is an inlay position within the shown frets
type FretMarkerEntry struct {
	Fret   int    `json:"fret"`
	Marker string `json:"marker"`
}

// ClickRequest addresses a position directly or by drawing coordinates
type ClickRequest struct {
	String *int     `json:"string"`
	Fret   *int     `json:"fret"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Ctrl   bool     `json:"ctrl"`
}

// ClickResponse reports the hit and the resulting outlines
type ClickResponse struct {
	Hit      bool                 `json:"hit"`
	Position *fretboard.Position  `json:"position,omitempty"`
	Outlined []fretboard.Position `json:"outlined"`
}

// PositionResponse describes a single position
type PositionResponse struct {
	Position fretboard.Position `json:"position"`
	Note     theory.Note        `json:"note"`
	Degree   theory.ScaleDegree `json:"degree"`
	InScale  bool               `json:"in_scale"`
}

// view returns the marker list of the applied settings, cached by settings
// and outlines
func (c *Controller) view() (session.Settings, []session.Marker, error) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	s := c.session.Settings()
	blob, err := session.Encode(s)
	if err != nil {
		return s, nil, err
	}
	key := fmt.Sprintf("%s|%v", blob, c.session.Outlined())

	if cached, found := c.viewCache.Get(key); found {
		c.recordViewCache(true)
		return s, cached.([]session.Marker), nil
	}
	c.recordViewCache(false)

	start := time.Now()
	markers, err := c.session.View()
	if err != nil {
		return s, nil, err
	}
	if c.metrics != nil {
		c.metrics.Fretboard.RecordViewBuilt(time.Since(start).Seconds())
	}
	c.viewCache.SetDefault(key, markers)
	return s, markers, nil
}

func (c *Controller) recordViewCache(hit bool) {
	if c.metrics != nil {
		c.metrics.Fretboard.RecordViewCache(hit)
	}
}

// GetFretboard returns the markers of the applied settings. With a width
// query parameter the drawing geometry is included.
func (c *Controller) GetFretboard(ctx echo.Context) error {
	s, markers, err := c.view()
	if err != nil {
		return c.fail(ctx, err, "Failed to build fretboard view")
	}

	resp := FretboardResponse{Settings: s, Markers: markers}
	first, last := s.FirstFret, s.LastFret

	if w := ctx.QueryParam("width"); w != "" {
		width, err := strconv.ParseFloat(w, 64)
		if err != nil || width <= 0 {
			return c.fail(ctx, badRequest(fmt.Errorf("invalid width %q", w), "width"), "Invalid width")
		}
		g, err := c.geometry(s, width)
		if err != nil {
			return c.fail(ctx, err, "Failed to compute layout")
		}
		resp.Geometry = &g
		first, last = g.FirstVisible, g.LastVisible
	}

	for fret := first; fret <= last; fret++ {
		if kind := layout.MarkerKind(fret); kind != layout.MarkerNone {
			resp.Frets = append(resp.Frets, FretMarkerEntry{Fret: fret, Marker: kind.String()})
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

// geometry lays out the applied settings across width
func (c *Controller) geometry(s session.Settings, width float64) (layout.Geometry, error) {
	ctx, err := s.Context()
	if err != nil {
		return layout.Geometry{}, err
	}
	return layout.Compute(width, ctx.StringCount(), s.FirstFret, s.LastFret, s.OpenStrings), nil
}

// Click toggles the outline of the addressed marker
func (c *Controller) Click(ctx echo.Context) error {
	var req ClickRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid click body", http.StatusBadRequest)
	}

	var p fretboard.Position
	switch {
	case req.String != nil && req.Fret != nil:
		p = fretboard.Position{String: *req.String, Fret: *req.Fret}
	case req.X != nil && req.Y != nil && req.Width != nil:
		g, err := c.geometry(c.currentSettings(), *req.Width)
		if err != nil {
			return c.fail(ctx, err, "Failed to compute layout")
		}
		hit, ok := g.PositionAt(*req.X, *req.Y)
		if !ok {
			c.recordClick(req.Ctrl, false)
			return ctx.JSON(http.StatusOK, ClickResponse{Outlined: c.outlined()})
		}
		p = hit
	default:
		err := badRequest(errors.NewStd("either string and fret or x, y and width are required"), "position")
		return c.fail(ctx, err, "Invalid click")
	}

	c.sessionMu.Lock()
	hit, err := c.session.Click(p, req.Ctrl)
	outlined := c.session.Outlined()
	c.sessionMu.Unlock()
	if err != nil {
		return c.fail(ctx, err, "Invalid position")
	}

	c.recordClick(req.Ctrl, hit)
	resp := ClickResponse{Hit: hit, Outlined: outlined}
	if hit {
		resp.Position = &p
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) recordClick(ctrl, hit bool) {
	if c.metrics != nil {
		c.metrics.Fretboard.RecordClick(ctrl, hit)
	}
}

func (c *Controller) outlined() []fretboard.Position {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	return c.session.Outlined()
}

// ClearOutlines restores every marker to full visibility
func (c *Controller) ClearOutlines(ctx echo.Context) error {
	c.sessionMu.Lock()
	c.session.ClearOutlines()
	c.sessionMu.Unlock()
	return ctx.NoContent(http.StatusNoContent)
}

// GetPosition returns the note and scale degree at /positions/:string/:fret
func (c *Controller) GetPosition(ctx echo.Context) error {
	str, err := strconv.Atoi(ctx.Param("string"))
	if err != nil {
		return c.fail(ctx, badRequest(err, "string"), "Invalid string index")
	}
	fret, err := strconv.Atoi(ctx.Param("fret"))
	if err != nil {
		return c.fail(ctx, badRequest(err, "fret"), "Invalid fret")
	}
	p := fretboard.Position{String: str, Fret: fret}

	c.sessionMu.Lock()
	fc := c.session.Context()
	c.sessionMu.Unlock()

	note, err := fc.NoteByPosition(p)
	if err != nil {
		return c.fail(ctx, err, "Invalid position")
	}
	degree, err := fc.ScaleDegreeByPosition(p)
	if err != nil {
		return c.fail(ctx, err, "Invalid position")
	}
	return ctx.JSON(http.StatusOK, PositionResponse{
		Position: p,
		Note:     note,
		Degree:   degree,
		InScale:  fc.IsNoteInScale(note),
	})
}
