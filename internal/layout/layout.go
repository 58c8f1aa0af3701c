// Package layout computes fretboard geometry: how many frets fit a given
// width, where each position is drawn and which position a point falls on.
package layout

import (
	"math"

	"github.com/tphakala/fretboard-go/internal/fretboard"
)

// Style constants in pixels
const (
	MaxFretSpacing = 120
	StringSpacing  = 55
	MarkerSize     = 30
	NoteSize       = 40
	OpenNoteSize   = 35
	TopMargin      = 30
	FretWidth      = 4
)

var degreeColors = [12]string{
	"black",
	"darkred",
	"firebrick",
	"darkgreen",
	"limegreen",
	"goldenrod",
	"skyblue",
	"darkblue",
	"purple",
	"mediumpurple",
	"teal",
	"turquoise",
}

// DegreeColor returns the fill color for a degree value (semitones above the root)
func DegreeColor(value int) string {
	return degreeColors[((value%12)+12)%12]
}

// Marker is the inlay drawn on a fret
type Marker int

const (
	MarkerNone Marker = iota
	MarkerSingle
	MarkerDouble
)

func (m Marker) String() string {
	switch m {
	case MarkerSingle:
		return "single"
	case MarkerDouble:
		return "double"
	default:
		return "none"
	}
}

// MarkerKind returns the inlay for a fret: single dots on 3, 5, 7 and 9,
// a double dot on 12, repeating every octave. The nut has none.
func MarkerKind(fret int) Marker {
	if fret <= 0 {
		return MarkerNone
	}
	switch fret % 12 {
	case 3, 5, 7, 9:
		return MarkerSingle
	case 0:
		return MarkerDouble
	default:
		return MarkerNone
	}
}

// Geometry is the computed layout for one drawing width
type Geometry struct {
	Width        float64 `json:"width"`
	StringCount  int     `json:"string_count"`
	FirstFret    int     `json:"first_fret"`
	LastFret     int     `json:"last_fret"`
	OpenStrings  bool    `json:"open_strings"`
	FretSpacing  float64 `json:"fret_spacing"`
	FirstVisible int     `json:"first_visible"`
	LastVisible  int     `json:"last_visible"`
}

// Compute lays out frets first..last across width. When the frets would be
// wider than MaxFretSpacing, extra frets are shown around the window, split
// evenly with the odd one on the high side, never starting below fret 1.
func Compute(width float64, stringCount, first, last int, open bool) Geometry {
	g := Geometry{
		Width:       width,
		StringCount: stringCount,
		FirstFret:   first,
		LastFret:    last,
		OpenStrings: open,
	}

	available := width - FretWidth
	if open {
		available -= OpenNoteSize
	}

	fretCount := max(last-first+1, 1)
	additional := 0
	if available > 0 {
		// smallest n with available/(fretCount+n) <= MaxFretSpacing
		additional = max(int(math.Ceil(available/MaxFretSpacing))-fretCount, 0)
		g.FretSpacing = available / float64(fretCount+additional)
	}

	g.FirstVisible = first - additional/2
	g.LastVisible = last + (additional+1)/2
	if shift := 1 - g.FirstVisible; shift > 0 {
		g.FirstVisible += shift
		g.LastVisible += shift
	}

	return g
}

// VisibleFrets returns the number of fret columns drawn
func (g Geometry) VisibleFrets() int {
	return g.LastVisible - g.FirstVisible + 1
}

// Height is the drawing height including the top margin
func (g Geometry) Height() float64 {
	return float64(StringSpacing*g.StringCount + TopMargin)
}

func (g Geometry) leftInset() float64 {
	if g.OpenStrings {
		return OpenNoteSize
	}
	return 0
}

// PositionAt maps a point in drawing coordinates to a position. It reports
// false for points above or below the strings and outside the visible frets.
func (g Geometry) PositionAt(x, y float64) (fretboard.Position, bool) {
	if g.FretSpacing <= 0 {
		return fretboard.Position{}, false
	}

	y -= TopMargin
	x -= g.leftInset()

	str := int(math.Floor(y / StringSpacing))
	if str < 0 || str >= g.StringCount {
		return fretboard.Position{}, false
	}

	fretIndex := int(math.Floor(x / g.FretSpacing))
	if fretIndex < 0 {
		if !g.OpenStrings {
			return fretboard.Position{}, false
		}
		return fretboard.Position{String: str, Fret: 0}, true
	}

	fret := g.FirstVisible + fretIndex
	if fret > g.LastVisible {
		return fretboard.Position{}, false
	}
	return fretboard.Position{String: str, Fret: fret}, true
}

// Center returns the drawing coordinates of the note circle for p. Open
// positions sit in the inset left of the nut.
func (g Geometry) Center(p fretboard.Position) (x, y float64) {
	y = TopMargin + (float64(p.String)+0.5)*StringSpacing
	if p.Fret == 0 {
		return g.leftInset() - 0.5*OpenNoteSize + 2, y
	}
	return g.leftInset() + (float64(p.Fret-g.FirstVisible)+0.5)*g.FretSpacing, y
}

// IsBoundaryFret reports whether the fret line at the left edge of fret is
// drawn dark: the lines enclosing the configured window.
func (g Geometry) IsBoundaryFret(fret int) bool {
	return fret == g.FirstFret || fret == g.LastFret+1
}
