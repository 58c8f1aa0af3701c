package fretboard

import (
	"slices"

	"github.com/tphakala/fretboard-go/internal/theory"
)

// Content is what a position displays
type Content struct {
	Note   theory.Note        `json:"note"`
	Degree theory.ScaleDegree `json:"degree"`
}

// Entry pairs a position with its content
type Entry struct {
	Position Position `json:"position"`
	Content  Content  `json:"content"`
}

// Data is an insertion-ordered table of position contents bound to a Context.
// Re-setting a position moves it to the end.
type Data struct {
	ctx     *Context
	entries []Entry
	index   map[Position]int
}

// NewData creates an empty table for ctx
func NewData(ctx *Context) *Data {
	return &Data{ctx: ctx, index: make(map[Position]int)}
}

// Context returns the bound context
func (d *Data) Context() *Context {
	return d.ctx
}

func (d *Data) contentAt(p Position) (Content, error) {
	note, err := d.ctx.NoteByPosition(p)
	if err != nil {
		return Content{}, err
	}
	degree, err := d.ctx.ScaleDegreeByPosition(p)
	if err != nil {
		return Content{}, err
	}
	return Content{Note: note, Degree: degree}, nil
}

// SetPositions fills content for the given positions
func (d *Data) SetPositions(positions ...Position) error {
	for _, p := range positions {
		content, err := d.contentAt(p)
		if err != nil {
			return err
		}
		d.Set(p, content)
	}
	return nil
}

// SetScale fills every in-scale position on frets 0..MaxFret
func (d *Data) SetScale() error {
	return d.SetPositions(d.ctx.InScalePositions()...)
}

// SetNote fills every position sounding the pitch class of n
func (d *Data) SetNote(n theory.Note) error {
	return d.SetPositions(d.ctx.SameNotePositions(n)...)
}

// SetDegree fills every position whose degree has the same interval as deg
func (d *Data) SetDegree(deg theory.ScaleDegree) error {
	var positions []Position
	for _, p := range d.ctx.AllPositions() {
		got, err := d.ctx.ScaleDegreeByPosition(p)
		if err != nil {
			return err
		}
		if got.Value() == deg.Value() {
			positions = append(positions, p)
		}
	}
	return d.SetPositions(positions...)
}

// Set stores content for p
func (d *Data) Set(p Position, content Content) {
	d.Delete(p)
	d.index[p] = len(d.entries)
	d.entries = append(d.entries, Entry{Position: p, Content: content})
}

// Get returns the content at p
func (d *Data) Get(p Position) (Content, bool) {
	i, ok := d.index[p]
	if !ok {
		return Content{}, false
	}
	return d.entries[i].Content, true
}

// Delete removes p; it reports whether p was present
func (d *Data) Delete(p Position) bool {
	i, ok := d.index[p]
	if !ok {
		return false
	}
	d.entries = slices.Delete(d.entries, i, i+1)
	d.reindex()
	return true
}

// Filter keeps the entries for which keep returns true
func (d *Data) Filter(keep func(Entry) bool) {
	d.entries = slices.DeleteFunc(d.entries, func(e Entry) bool { return !keep(e) })
	d.reindex()
}

// Clip keeps fret 0 only when open is set and other frets within [first, last]
func (d *Data) Clip(first, last int, open bool) {
	d.Filter(func(e Entry) bool {
		return InWindow(e.Position.Fret, first, last, open)
	})
}

func (d *Data) reindex() {
	clear(d.index)
	for i, e := range d.entries {
		d.index[e.Position] = i
	}
}

func (d *Data) Len() int {
	return len(d.entries)
}

func (d *Data) IsEmpty() bool {
	return len(d.entries) == 0
}

// Positions returns the stored positions in insertion order
func (d *Data) Positions() []Position {
	positions := make([]Position, len(d.entries))
	for i, e := range d.entries {
		positions[i] = e.Position
	}
	return positions
}

// Entries returns a copy of the table in insertion order
func (d *Data) Entries() []Entry {
	return slices.Clone(d.entries)
}

// Degrees returns the distinct degrees present, in first-seen order
func (d *Data) Degrees() []theory.ScaleDegree {
	seen := NewValueSet[string]()
	var degrees []theory.ScaleDegree
	for _, e := range d.entries {
		if seen.Contains(e.Content.Degree.ID()) {
			continue
		}
		seen.Add(e.Content.Degree.ID())
		degrees = append(degrees, e.Content.Degree)
	}
	return degrees
}

// Equal reports whether both tables hold the same positions with notes of
// equal value. Order does not matter.
func (d *Data) Equal(other *Data) bool {
	if other == nil || d.Len() != other.Len() {
		return false
	}
	for _, e := range d.entries {
		theirs, ok := other.Get(e.Position)
		if !ok || theirs.Note.Value() != e.Content.Note.Value() {
			return false
		}
	}
	return true
}
