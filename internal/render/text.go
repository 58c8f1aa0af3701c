// Package render draws fretboard views as text for terminal output.
package render

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/layout"
	"github.com/tphakala/fretboard-go/internal/session"
)

const (
	cellWidth = 7
	nameWidth = 4
)

// degreeAttributes follows the layout palette with the nearest ANSI colors
var degreeAttributes = [12]color.Attribute{
	color.FgHiWhite,
	color.FgRed,
	color.FgHiRed,
	color.FgGreen,
	color.FgHiGreen,
	color.FgYellow,
	color.FgHiCyan,
	color.FgBlue,
	color.FgMagenta,
	color.FgHiMagenta,
	color.FgCyan,
	color.FgHiBlue,
}

type options struct {
	color bool
}

// Option configures Text
type Option func(*options)

// WithColor colors labels by scale degree, regardless of whether w is a terminal
func WithColor(enabled bool) Option {
	return func(o *options) { o.color = enabled }
}

// Text draws one row per string, highest string first, with a column per
// visible fret. Marker frets are numbered in the header and outlined markers
// are shown in brackets.
func Text(w io.Writer, s session.Settings, markers []session.Marker, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx, err := s.Context()
	if err != nil {
		return err
	}

	byPosition := make(map[fretboard.Position]session.Marker, len(markers))
	for _, m := range markers {
		byPosition[m.Position] = m
	}

	bw := bufio.NewWriter(w)
	writeHeader(bw, s)

	for str := range ctx.StringCount() {
		open, _ := ctx.Tuning().Note(str)
		bw.WriteString(pad(open.Name(), nameWidth, ' ', false))

		if s.OpenStrings {
			bw.WriteString(cell(byPosition, fretboard.Position{String: str, Fret: 0}, o))
		}
		bw.WriteString("|")
		for fret := s.FirstFret; fret <= s.LastFret; fret++ {
			bw.WriteString(cell(byPosition, fretboard.Position{String: str, Fret: fret}, o))
			bw.WriteString("|")
		}
		bw.WriteString("\n")
	}

	if err := bw.Flush(); err != nil {
		return errors.New(err).
			Component("render").
			Category(errors.CategoryFileIO).
			Build()
	}
	return nil
}

func writeHeader(bw *bufio.Writer, s session.Settings) {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", nameWidth))
	if s.OpenStrings {
		b.WriteString(strings.Repeat(" ", cellWidth))
	}
	b.WriteString(" ")
	for fret := s.FirstFret; fret <= s.LastFret; fret++ {
		label := ""
		if layout.MarkerKind(fret) != layout.MarkerNone {
			label = strconv.Itoa(fret)
		}
		b.WriteString(pad(label, cellWidth, ' ', true))
		b.WriteString(" ")
	}
	bw.WriteString(strings.TrimRight(b.String(), " "))
	bw.WriteString("\n")
}

func cell(markers map[fretboard.Position]session.Marker, p fretboard.Position, o options) string {
	m, ok := markers[p]
	if !ok {
		return strings.Repeat("-", cellWidth)
	}

	label := m.Label
	if m.Visibility == session.VisibilityOutlined {
		label = "[" + label + "]"
	}
	text := pad(label, cellWidth, '-', true)
	if !o.color {
		return text
	}

	// color only the label so the cell keeps its width
	start := strings.Index(text, label)
	c := color.New(degreeAttributes[((m.Degree.Value()%12)+12)%12])
	if m.Degree.Value() == 0 {
		c.Add(color.Bold)
	}
	c.EnableColor()
	return text[:start] + c.Sprint(label) + text[start+len(label):]
}

// pad fills s to width with fill, centered or left-aligned
func pad(s string, width int, fill rune, center bool) string {
	gap := width - len(s)
	if gap <= 0 {
		return s
	}
	if !center {
		return s + strings.Repeat(string(fill), gap)
	}
	left := gap / 2
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), gap-left)
}
