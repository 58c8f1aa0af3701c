package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/layout"
	"github.com/tphakala/fretboard-go/internal/observability"
	"github.com/tphakala/fretboard-go/internal/session"
)

func TestGetFretboard(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t)
	rec := do(t, e, http.MethodGet, APIPrefix+"/fretboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[FretboardResponse](t, rec)
	require.Len(t, resp.Markers, 12, "A minor pentatonic has two notes per string in frets 5-8")
	first := resp.Markers[0]
	assert.Equal(t, fretboard.Position{String: 0, Fret: 5}, first.Position)
	assert.Equal(t, "A", first.Note.ID())
	assert.Equal(t, "1", first.Label)
	assert.Equal(t, session.VisibilityFull, first.Visibility)
	assert.Nil(t, resp.Geometry)
	assert.Equal(t, []FretMarkerEntry{{Fret: 5, Marker: "single"}, {Fret: 7, Marker: "single"}}, resp.Frets)
}

func TestGetFretboardGeometry(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t)
	rec := do(t, e, http.MethodGet, APIPrefix+"/fretboard?width=800", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[FretboardResponse](t, rec)
	require.NotNil(t, resp.Geometry)
	want := layout.Compute(800, 6, 5, 8, false)
	assert.Equal(t, want, *resp.Geometry)
	for _, f := range resp.Frets {
		assert.GreaterOrEqual(t, f.Fret, want.FirstVisible)
		assert.LessOrEqual(t, f.Fret, want.LastVisible)
	}

	rec = do(t, e, http.MethodGet, APIPrefix+"/fretboard?width=wide", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestViewCache(t *testing.T) {
	t.Parallel()

	m, err := observability.NewMetrics()
	require.NoError(t, err)
	e, _ := newTestController(t, WithMetrics(m))

	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, APIPrefix+"/fretboard", nil).Code)
	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, APIPrefix+"/fretboard", nil).Code)
	assert.InDelta(t, 0.5, m.Fretboard.ViewCacheHitRatio(), 1e-9)

	// an outline changes the view, so the next lookup misses
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, APIPrefix+"/fretboard/click",
		map[string]any{"string": 0, "fret": 5}).Code)
	rec := do(t, e, http.MethodGet, APIPrefix+"/fretboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1.0/3.0, m.Fretboard.ViewCacheHitRatio(), 1e-9)

	resp := decode[FretboardResponse](t, rec)
	assert.Equal(t, session.VisibilityOutlined, resp.Markers[0].Visibility)
}

func TestClickByPosition(t *testing.T) {
	t.Parallel()

	e, c := newTestController(t)

	rec := do(t, e, http.MethodPost, APIPrefix+"/fretboard/click", map[string]any{"string": 0, "fret": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ClickResponse](t, rec)
	assert.True(t, resp.Hit)
	require.NotNil(t, resp.Position)
	assert.Equal(t, fretboard.Position{String: 0, Fret: 5}, *resp.Position)
	assert.Equal(t, []fretboard.Position{{String: 0, Fret: 5}}, resp.Outlined)

	// F is not in the scale
	rec = do(t, e, http.MethodPost, APIPrefix+"/fretboard/click", map[string]any{"string": 0, "fret": 6})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[ClickResponse](t, rec)
	assert.False(t, resp.Hit)
	assert.Nil(t, resp.Position)
	assert.Len(t, resp.Outlined, 1)

	rec = do(t, e, http.MethodPost, APIPrefix+"/fretboard/click", map[string]any{"string": 6, "fret": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, e, http.MethodPost, APIPrefix+"/fretboard/click", map[string]any{"ctrl": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodDelete, APIPrefix+"/fretboard/outline", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, c.outlined())
}

func TestCtrlClickOutlinesPitchClass(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t)
	rec := do(t, e, http.MethodPost, APIPrefix+"/fretboard/click",
		map[string]any{"string": 0, "fret": 5, "ctrl": true})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ClickResponse](t, rec)
	assert.ElementsMatch(t, []fretboard.Position{
		{String: 0, Fret: 5},
		{String: 3, Fret: 7},
		{String: 5, Fret: 5},
	}, resp.Outlined)
}

func TestClickByCoordinates(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t)
	g := layout.Compute(800, 6, 5, 8, false)
	x, y := g.Center(fretboard.Position{String: 1, Fret: 5})

	rec := do(t, e, http.MethodPost, APIPrefix+"/fretboard/click",
		map[string]any{"x": x, "y": y, "width": 800})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ClickResponse](t, rec)
	assert.True(t, resp.Hit)
	require.NotNil(t, resp.Position)
	assert.Equal(t, fretboard.Position{String: 1, Fret: 5}, *resp.Position)

	// above the strings
	rec = do(t, e, http.MethodPost, APIPrefix+"/fretboard/click",
		map[string]any{"x": x, "y": 0, "width": 800})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[ClickResponse](t, rec)
	assert.False(t, resp.Hit)
	assert.Len(t, resp.Outlined, 1)
}

func TestGetPosition(t *testing.T) {
	t.Parallel()

	e, _ := newTestController(t)

	rec := do(t, e, http.MethodGet, APIPrefix+"/positions/0/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[PositionResponse](t, rec)
	assert.Equal(t, "A", resp.Note.ID())
	assert.Equal(t, "1", resp.Degree.ID())
	assert.True(t, resp.InScale)

	rec = do(t, e, http.MethodGet, APIPrefix+"/positions/0/6", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[PositionResponse](t, rec)
	assert.Equal(t, "b2", resp.Degree.ID())
	assert.False(t, resp.InScale)

	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, APIPrefix+"/positions/low/5", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, e, http.MethodGet, APIPrefix+"/positions/9/5", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, e, http.MethodGet, APIPrefix+"/positions/0/-1", nil).Code)
}
