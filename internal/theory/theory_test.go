package theory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/fretboard-go/internal/errors"
)

func TestParseNote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id         string
		value      int
		pitchClass int
		hasOctave  bool
	}{
		{"C", 0, 0, false},
		{"A", 9, 9, false},
		{"Cb", 11, 11, false},
		{"B#", 0, 0, false},
		{"Bbb", 9, 9, false},
		{"F##", 7, 7, false},
		{"C1", 0, 0, true},
		{"A4", 45, 9, true},
		{"E2", 16, 4, true},
		{"Cb1", -1, 11, true},
		{"C-1", -24, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			n, err := ParseNote(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.value, n.Value())
			assert.Equal(t, tt.pitchClass, n.PitchClass())
			assert.Equal(t, tt.hasOctave, n.HasOctave())
			assert.Equal(t, tt.id, n.ID())
		})
	}
}

func TestParseNoteRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "H", "c", "A###", "Ab#", "A 4", "A4.5", "bA"} {
		_, err := ParseNote(id)
		require.Error(t, err, id)
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
		assert.True(t, errors.IsCategory(err, errors.CategoryInvalidIdentifier))
	}
}

func TestNoteRelations(t *testing.T) {
	t.Parallel()

	assert.True(t, MustParseNote("C#").Same(MustParseNote("Db")))
	assert.False(t, MustParseNote("C#").Equal(MustParseNote("Db")))
	assert.True(t, MustParseNote("A2").Same(MustParseNote("A5")))
	assert.True(t, MustParseNote("G").Equal(MustParseNote("G")))

	n := MustParseNote("Bb3")
	assert.Equal(t, "B3", n.NaturalNote().ID())
	assert.Equal(t, "Bb", n.Name())
	assert.Equal(t, "B♭3", n.Text())
	assert.Equal(t, "F\U0001D12A", MustParseNote("F##").Text())
	assert.Equal(t, "E\U0001D12B", MustParseNote("Ebb").Text())
}

func TestNoteJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(struct {
		Root Note `json:"root"`
	}{MustParseNote("F#")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":"F#"}`, string(data))

	var decoded struct {
		Root Note `json:"root"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"root":"Eb4"}`), &decoded))
	assert.Equal(t, "Eb4", decoded.Root.ID())

	require.Error(t, json.Unmarshal([]byte(`{"root":"X"}`), &decoded))
}

func TestParseScaleDegree(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id    string
		value int
		text  string
	}{
		{"1", 0, "1"},
		{"b2", 1, "♭2"},
		{"b3", 3, "♭3"},
		{"#4", 6, "♯4"},
		{"b5", 6, "♭5"},
		{"7", 11, "7"},
		{"#7", 0, "♯7"},
		{"bb7", 9, "\U0001D12B7"},
	}

	for _, tt := range tests {
		d, err := ParseScaleDegree(tt.id)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.value, d.Value(), tt.id)
		assert.Equal(t, tt.text, d.Text(), tt.id)
		assert.Equal(t, tt.id, d.ID())
	}

	for _, id := range []string{"", "0", "8", "b1", "#1", "b", "3b", "###3"} {
		_, err := ParseScaleDegree(id)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, id)
	}
}

func TestDefaultScaleDegree(t *testing.T) {
	t.Parallel()

	want := []string{"1", "b2", "2", "b3", "3", "4", "b5", "5", "b6", "6", "b7", "7"}
	for v, id := range want {
		d := DefaultScaleDegree(v)
		assert.Equal(t, id, d.ID())
		assert.Equal(t, v, d.Value())
	}
	assert.Equal(t, "b7", DefaultScaleDegree(-2).ID())
	assert.Equal(t, "3", DefaultScaleDegree(16).ID())
}

func TestScale(t *testing.T) {
	t.Parallel()

	s, err := ParseScale("1-b3-4-5-b7")
	require.NoError(t, err)
	assert.Equal(t, "1-b3-4-5-b7", s.ID())
	assert.Equal(t, 5, s.Len())

	d, ok := s.DegreeByValue(10)
	require.True(t, ok)
	assert.Equal(t, "b7", d.ID())

	_, ok = s.DegreeByValue(4)
	assert.False(t, ok)

	assert.True(t, s.Contains(MustParseScaleDegree("#2")))
	assert.False(t, s.Contains(MustParseScaleDegree("3")))

	degrees := s.Degrees()
	degrees[0] = MustParseScaleDegree("7")
	assert.Equal(t, "1", s.Degrees()[0].ID(), "Degrees must return a copy")

	_, err = ParseScale("1-b3-")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
	_, err = ParseScale("")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestScaleFirstDeclaredDegreeWins(t *testing.T) {
	t.Parallel()

	s := MustParseScale("1-#4-b5")
	d, ok := s.DegreeByValue(6)
	require.True(t, ok)
	assert.Equal(t, "#4", d.ID())
}

func TestTuning(t *testing.T) {
	t.Parallel()

	tuning, err := ParseTuning("E-A-D-G-B-E")
	require.NoError(t, err)
	assert.Equal(t, "E-A-D-G-B-E", tuning.ID())
	assert.Equal(t, 6, tuning.StringCount())
	assert.False(t, tuning.HasOctaves())

	high, ok := tuning.Note(0)
	require.True(t, ok)
	assert.Equal(t, "E", high.ID())

	b, ok := tuning.Note(1)
	require.True(t, ok)
	assert.Equal(t, "B", b.ID())

	_, ok = tuning.Note(6)
	assert.False(t, ok)
	_, ok = tuning.Note(-1)
	assert.False(t, ok)
}

func TestTuningWithOctaves(t *testing.T) {
	t.Parallel()

	tuning, err := ParseTuning("E2-A2-D3-G3-B3-E4")
	require.NoError(t, err)
	assert.True(t, tuning.HasOctaves())
	assert.Equal(t, "E2-A2-D3-G3-B3-E4", tuning.ID())

	low, _ := tuning.Note(5)
	assert.Equal(t, 16, low.Value())

	negative, err := ParseTuning("B-1-E0")
	require.NoError(t, err)
	assert.Equal(t, "B-1-E0", negative.ID())
	assert.Equal(t, 2, negative.StringCount())
}

func TestTuningRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "E-", "-E", "E--A", "E-X", "E2-A", "E A"} {
		_, err := ParseTuning(id)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, id)
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	for _, s := range Scales() {
		_, err := ParseScale(s.ID)
		require.NoError(t, err, s.Slug)
	}
	for _, tn := range Tunings() {
		parsed, err := ParseTuning(tn.ID)
		require.NoError(t, err, tn.Slug)
		assert.Equal(t, tn.ID, parsed.ID())
	}

	s, err := LookupScale("minor-pentatonic")
	require.NoError(t, err)
	assert.Equal(t, "1-b3-4-5-b7", s.ID())

	s, err = LookupScale("1-3-5")
	require.NoError(t, err)
	assert.Equal(t, "1-3-5", s.ID())

	_, err = LookupScale("no-such-scale")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	tn, err := LookupTuning("dropped-d")
	require.NoError(t, err)
	assert.Equal(t, "D-A-D-G-B-E", tn.ID())

	assert.Equal(t, "Minor Pentatonic", ScaleName("1-b3-4-5-b7"))
	assert.Equal(t, "Dorian", ScaleName("1-2-b3-4-5-6-b7"))
	assert.Equal(t, "Major7 Arpeggio", ScaleName("1-3-5-7"))
	assert.Empty(t, ScaleName("1-2"))

	roots := Roots()
	require.Len(t, roots, 15)
	assert.Equal(t, "Cb", roots[0].ID())
	assert.Equal(t, "C#", roots[14].ID())
}

func TestMod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, n, want int
	}{
		{14, 12, 2},
		{-1, 12, 11},
		{-12, 12, 0},
		{-15, 7, 6},
		{0, 7, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mod(tt.a, tt.n), "Mod(%d, %d)", tt.a, tt.n)
	}
}
