package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/fretboard-go/internal/fretboard"
)

func TestComputeWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		width        float64
		first, last  int
		open         bool
		firstVisible int
		lastVisible  int
		spacing      float64
	}{
		{"narrow keeps configured frets", 300, 5, 8, false, 5, 8, 74},
		{"wide adds frets on both sides", 1000, 5, 8, false, 3, 11, 996.0 / 9},
		{"open strings reserve the inset", 1000, 5, 8, true, 3, 11, 961.0 / 9},
		{"never below fret 1", 1000, 1, 2, false, 1, 9, 996.0 / 9},
		{"exact fit adds nothing", 4 + 4*MaxFretSpacing, 5, 8, false, 5, 8, MaxFretSpacing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := Compute(tt.width, 6, tt.first, tt.last, tt.open)
			assert.Equal(t, tt.firstVisible, g.FirstVisible)
			assert.Equal(t, tt.lastVisible, g.LastVisible)
			assert.InDelta(t, tt.spacing, g.FretSpacing, 1e-9)
			assert.LessOrEqual(t, g.FretSpacing, float64(MaxFretSpacing))
			assert.LessOrEqual(t, g.FirstVisible, max(tt.first, 1))
			assert.GreaterOrEqual(t, g.LastVisible, tt.last)
		})
	}
}

func TestComputeDegenerateWidth(t *testing.T) {
	t.Parallel()

	g := Compute(0, 6, 5, 8, false)
	assert.Zero(t, g.FretSpacing)
	_, ok := g.PositionAt(10, 40)
	assert.False(t, ok)
}

func TestHeight(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 6*55+30, Compute(800, 6, 5, 8, false).Height(), 1e-9)
}

func TestPositionAt(t *testing.T) {
	t.Parallel()

	g := Compute(300, 6, 5, 8, false) // spacing 74, frets 5..8

	tests := []struct {
		name string
		x, y float64
		want fretboard.Position
		ok   bool
	}{
		{"first cell", 10, TopMargin + 10, fretboard.Position{String: 0, Fret: 5}, true},
		{"second string third fret column", 74*2 + 1, TopMargin + StringSpacing + 1, fretboard.Position{String: 1, Fret: 7}, true},
		{"lowest string", 74*3 + 1, TopMargin + 5*StringSpacing + 54, fretboard.Position{String: 5, Fret: 8}, true},
		{"above the strings", 10, 5, fretboard.Position{}, false},
		{"below the strings", 10, TopMargin + 6*StringSpacing, fretboard.Position{}, false},
		{"left of nut without open strings", -5, TopMargin + 10, fretboard.Position{}, false},
		{"beyond last visible fret", 74 * 4, TopMargin + 10, fretboard.Position{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := g.PositionAt(tt.x, tt.y)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPositionAtOpenStrings(t *testing.T) {
	t.Parallel()

	g := Compute(335, 6, 5, 8, true) // inset 35, spacing 74

	p, ok := g.PositionAt(10, TopMargin+2*StringSpacing+1)
	require.True(t, ok)
	assert.Equal(t, fretboard.Position{String: 2, Fret: 0}, p)

	p, ok = g.PositionAt(OpenNoteSize+1, TopMargin+1)
	require.True(t, ok)
	assert.Equal(t, fretboard.Position{String: 0, Fret: 5}, p)
}

func TestCenterRoundTrip(t *testing.T) {
	t.Parallel()

	for _, open := range []bool{false, true} {
		g := Compute(900, 6, 3, 7, open)
		for s := range 6 {
			for f := g.FirstVisible; f <= g.LastVisible; f++ {
				p := fretboard.Position{String: s, Fret: f}
				x, y := g.Center(p)
				got, ok := g.PositionAt(x, y)
				require.True(t, ok)
				assert.Equal(t, p, got)
			}
			if open {
				x, y := g.Center(fretboard.Position{String: s, Fret: 0})
				got, ok := g.PositionAt(x, y)
				require.True(t, ok)
				assert.Equal(t, 0, got.Fret)
			}
		}
	}
}

func TestMarkerKind(t *testing.T) {
	t.Parallel()

	want := map[int]Marker{
		0: MarkerNone, 1: MarkerNone, 3: MarkerSingle, 5: MarkerSingle, 7: MarkerSingle,
		9: MarkerSingle, 12: MarkerDouble, 15: MarkerSingle, 24: MarkerDouble, 11: MarkerNone,
	}
	for fret, kind := range want {
		assert.Equal(t, kind, MarkerKind(fret), "fret %d", fret)
	}
	assert.Equal(t, "double", MarkerDouble.String())
}

func TestDegreeColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "black", DegreeColor(0))
	assert.Equal(t, "teal", DegreeColor(10))
	assert.Equal(t, "turquoise", DegreeColor(-1))
	assert.Equal(t, "darkred", DegreeColor(13))
}
