package exercise

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/fretboard-go/internal/fretboard"
)

var boxWindow = Window{FirstFret: 5, LastFret: 8}

func newController(t *testing.T, kind Kind, scale string, window Window) (Controller, *fretboard.Context) {
	t.Helper()
	ctx, err := fretboard.NewContextFromIDs("A", scale, "E-A-D-G-B-E")
	require.NoError(t, err)
	c, err := New(kind, ctx, window, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return c, ctx
}

func selectionOf(t *testing.T, ctx *fretboard.Context, positions ...fretboard.Position) *fretboard.Data {
	t.Helper()
	data := fretboard.NewData(ctx)
	require.NoError(t, data.SetPositions(positions...))
	return data
}

func TestMarkNoteQuestions(t *testing.T) {
	t.Parallel()

	c, ctx := newController(t, KindMarkNote, "1-b3-4-5-b7", boxWindow)
	assert.Equal(t, "Mark Note", c.Name())

	previous := ctx.Root().PitchClass()
	for range 50 {
		q, err := c.NextQuestion()
		require.NoError(t, err)
		assert.NotEqual(t, previous, q.Note.PitchClass(), "question repeats the previous note")
		assert.True(t, ctx.IsNoteInScale(q.Note))
		assert.Equal(t, "Where do you find the note "+q.Note.Text()+"?", q.Text)
		assert.Nil(t, q.String)
		previous = q.Note.PitchClass()
	}
}

func TestMarkNoteGrading(t *testing.T) {
	t.Parallel()

	c, ctx := newController(t, KindMarkNote, "1-b3-4-5-b7", boxWindow)
	q, err := c.NextQuestion()
	require.NoError(t, err)

	key, err := c.AnswerKey()
	require.NoError(t, err)
	require.False(t, key.IsEmpty())
	for _, p := range key.Positions() {
		n, err := ctx.NoteByPosition(p)
		require.NoError(t, err)
		assert.Equal(t, q.Note.PitchClass(), n.PitchClass())
		assert.True(t, fretboard.InWindow(p.Fret, 5, 8, false))
	}

	exact := selectionOf(t, ctx, key.Positions()...)
	ok, err := c.Validate(exact)
	require.NoError(t, err)
	assert.True(t, ok, "exact selection")

	var extraPos fretboard.Position
	for _, p := range ctx.PositionsInWindow(5, 8, false) {
		if _, taken := key.Get(p); !taken {
			extraPos = p
			break
		}
	}
	extra := selectionOf(t, ctx, append(key.Positions(), extraPos)...)
	ok, err = c.Validate(extra)
	require.NoError(t, err)
	assert.False(t, ok, "extra position")

	missing := selectionOf(t, ctx, key.Positions()[1:]...)
	ok, err = c.Validate(missing)
	require.NoError(t, err)
	assert.False(t, ok, "missing position")
}

func TestMarkDegreeQuestions(t *testing.T) {
	t.Parallel()

	c, ctx := newController(t, KindMarkDegree, "1-b3-4-5-b7", boxWindow)

	previous := 0
	for range 30 {
		q, err := c.NextQuestion()
		require.NoError(t, err)
		assert.NotEqual(t, previous, q.Degree.Value())
		assert.Equal(t, "In the key of A, where do you find the "+q.Degree.Text()+"?", q.Text)

		key, err := c.AnswerKey()
		require.NoError(t, err)
		for _, p := range key.Positions() {
			d, err := ctx.ScaleDegreeByPosition(p)
			require.NoError(t, err)
			assert.Equal(t, q.Degree.Value(), d.Value())
		}
		ok, err := c.Validate(selectionOf(t, ctx, key.Positions()...))
		require.NoError(t, err)
		assert.True(t, ok)

		previous = q.Degree.Value()
	}
}

func TestSingleDegreeScaleRepeats(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, KindMarkDegree, "1", boxWindow)
	for range 3 {
		q, err := c.NextQuestion()
		require.NoError(t, err)
		assert.Equal(t, "1", q.Degree.ID())
	}
}

func TestMarkDegreeOnString(t *testing.T) {
	t.Parallel()

	c, ctx := newController(t, KindMarkDegreeOnString, "1-b3-4-5-b7", boxWindow)
	assert.Equal(t, "Mark Degree On String", c.Name())

	previous := 0
	for range 30 {
		q, err := c.NextQuestion()
		require.NoError(t, err)
		require.NotNil(t, q.String)
		assert.NotEqual(t, previous, *q.String)
		assert.True(t, strings.HasSuffix(q.Text, "on the "+Ordinal(*q.String)+" string?"), q.Text)
		assert.True(t, ctx.Scale().Contains(q.Degree))

		key, err := c.AnswerKey()
		require.NoError(t, err)
		require.False(t, key.IsEmpty(), "chosen degree must appear on the chosen string")
		for _, p := range key.Positions() {
			assert.Equal(t, *q.String, p.String)
		}
		previous = *q.String
	}
}

func TestEmptyWindowHasNoQuestion(t *testing.T) {
	t.Parallel()

	// fret 1 on standard tuning holds F Bb Eb Ab C F, none of them an A
	c, _ := newController(t, KindMarkDegreeOnString, "1", Window{FirstFret: 1, LastFret: 1})
	_, err := c.NextQuestion()
	require.ErrorIs(t, err, ErrNoQuestion)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	ctx, err := fretboard.NewContextFromIDs("A", "1", "E-A-D-G-B-E")
	require.NoError(t, err)
	_, err = New("mark-chord", ctx, boxWindow, nil)
	require.Error(t, err)

	for _, kind := range Kinds() {
		c, err := New(kind, ctx, boxWindow, nil)
		require.NoError(t, err)
		assert.Equal(t, kind, c.Kind())
	}
}

func TestOrdinal(t *testing.T) {
	t.Parallel()

	want := map[int]string{0: "1st", 1: "2nd", 2: "3rd", 3: "4th", 5: "6th", 10: "11th", 11: "12th", 12: "13th", 20: "21st", 21: "22nd"}
	for index, s := range want {
		assert.Equal(t, s, Ordinal(index))
	}
}
