package session

import (
	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/layout"
	"github.com/tphakala/fretboard-go/internal/theory"
)

// Visibility describes how a marker is drawn
type Visibility string

const (
	VisibilityFull     Visibility = "full"
	VisibilityOutlined Visibility = "outlined"
)

// Marker is one drawable position of the fretboard view
type Marker struct {
	Position   fretboard.Position `json:"position"`
	Note       theory.Note        `json:"note"`
	Degree     theory.ScaleDegree `json:"degree"`
	Label      string             `json:"label"`
	Color      string             `json:"color"`
	Visibility Visibility         `json:"visibility"`
}

// Controller holds the applied settings and the outlined positions.
// It is not safe for concurrent use.
type Controller struct {
	settings Settings
	ctx      *fretboard.Context
	outlined *fretboard.PositionSet
}

// NewController validates settings and builds their Context
func NewController(s Settings) (*Controller, error) {
	c := &Controller{outlined: fretboard.NewPositionSet()}
	if err := c.Apply(s); err != nil {
		return nil, err
	}
	return c, nil
}

// Settings returns the applied settings
func (c *Controller) Settings() Settings {
	return c.settings
}

// Context returns the theory context of the applied settings
func (c *Controller) Context() *fretboard.Context {
	return c.ctx
}

// Apply replaces the settings and clears outlines. Invalid settings leave
// the controller unchanged.
func (c *Controller) Apply(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	ctx, err := s.Context()
	if err != nil {
		return err
	}

	c.settings = s
	c.ctx = ctx
	c.outlined.Clear()
	return nil
}

// visible returns the in-scale data of the fret window
func (c *Controller) visible() (*fretboard.Data, error) {
	data := fretboard.NewData(c.ctx)
	if err := data.SetScale(); err != nil {
		return nil, err
	}
	data.Clip(c.settings.FirstFret, c.settings.LastFret, c.settings.OpenStrings)
	return data, nil
}

// Click toggles the outline of the marker at p. With ctrl set every visible
// marker sharing its pitch class takes the same new state. It reports
// whether a marker was hit; clicks on empty positions change nothing.
func (c *Controller) Click(p fretboard.Position, ctrl bool) (bool, error) {
	clicked, err := c.ctx.NoteByPosition(p)
	if err != nil {
		return false, err
	}

	data, err := c.visible()
	if err != nil {
		return false, err
	}
	if _, ok := data.Get(p); !ok {
		return false, nil
	}

	outline := !c.outlined.Contains(p)
	targets := []fretboard.Position{p}
	if ctrl {
		targets = targets[:0]
		for _, entry := range data.Entries() {
			if entry.Content.Note.PitchClass() == clicked.PitchClass() {
				targets = append(targets, entry.Position)
			}
		}
	}

	if outline {
		c.outlined.Add(targets...)
	} else {
		c.outlined.Remove(targets...)
	}
	return true, nil
}

// ClearOutlines restores every marker to full visibility
func (c *Controller) ClearOutlines() {
	c.outlined.Clear()
}

// Outlined returns the outlined positions in the order they were outlined
func (c *Controller) Outlined() []fretboard.Position {
	return c.outlined.Slice()
}

// View returns the markers to draw, string-major
func (c *Controller) View() ([]Marker, error) {
	data, err := c.visible()
	if err != nil {
		return nil, err
	}

	markers := make([]Marker, 0, data.Len())
	for _, entry := range data.Entries() {
		m := Marker{
			Position:   entry.Position,
			Note:       entry.Content.Note,
			Degree:     entry.Content.Degree,
			Color:      layout.DegreeColor(entry.Content.Degree.Value()),
			Visibility: VisibilityFull,
		}
		if c.settings.Labels == LabelsNotes {
			m.Label = entry.Content.Note.Name()
		} else {
			m.Label = entry.Content.Degree.ID()
		}
		if c.outlined.Contains(entry.Position) {
			m.Visibility = VisibilityOutlined
		}
		markers = append(markers, m)
	}
	return markers, nil
}
