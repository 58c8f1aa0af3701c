package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/session"
)

func view(t *testing.T, s session.Settings, outline ...fretboard.Position) []session.Marker {
	t.Helper()
	c, err := session.NewController(s)
	require.NoError(t, err)
	for _, p := range outline {
		_, err := c.Click(p, false)
		require.NoError(t, err)
	}
	markers, err := c.View()
	require.NoError(t, err)
	return markers
}

func TestTextDefaultBox(t *testing.T) {
	t.Parallel()

	s := session.DefaultSettings()
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, s, view(t, s)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)

	header := lines[0]
	assert.Contains(t, header, "5")
	assert.Contains(t, header, "7")
	assert.NotContains(t, header, "6")

	// high E: A at 5 is the root, C at 8 the minor third
	assert.Equal(t, "E   |---1---|-------|-------|--b3---|", lines[1])
	// low E: A at 5, C at 8
	assert.Equal(t, "E   |---1---|-------|-------|--b3---|", lines[6])
	assert.True(t, strings.HasPrefix(lines[2], "B   |"))
}

func TestTextOutlinedAndOpen(t *testing.T) {
	t.Parallel()

	s := session.DefaultSettings()
	s.OpenStrings = true
	s.Labels = session.LabelsNotes

	var buf bytes.Buffer
	markers := view(t, s, fretboard.Position{String: 0, Fret: 5})
	require.NoError(t, Text(&buf, s, markers))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "E   ---E---|--[A]--|-------|-------|---C---|", lines[1])
	// B is not in A minor pentatonic
	assert.True(t, strings.HasPrefix(lines[2], "B   -------|"), lines[2])
}

func TestTextColor(t *testing.T) {
	t.Parallel()

	s := session.DefaultSettings()
	var plain, colored bytes.Buffer
	markers := view(t, s)
	require.NoError(t, Text(&plain, s, markers))
	require.NoError(t, Text(&colored, s, markers, WithColor(true)))

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestTextRejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	s := session.DefaultSettings()
	s.Tuning = "nope"
	require.Error(t, Text(&bytes.Buffer{}, s, nil))
}
