package fretboard

import (
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/theory"
)

// Context binds a root, a scale and a tuning. It is immutable; settings
// changes build a new Context.
type Context struct {
	root   theory.Note
	scale  theory.Scale
	tuning theory.Tuning
}

// NewContext creates a Context from parsed values
func NewContext(root theory.Note, scale theory.Scale, tuning theory.Tuning) *Context {
	return &Context{root: root, scale: scale, tuning: tuning}
}

// NewContextFromIDs parses the three identifiers. Scale and tuning may be
// catalog slugs.
func NewContextFromIDs(rootID, scaleID, tuningID string) (*Context, error) {
	root, err := theory.ParseNote(rootID)
	if err != nil {
		return nil, err
	}
	scale, err := theory.LookupScale(scaleID)
	if err != nil {
		return nil, err
	}
	tuning, err := theory.LookupTuning(tuningID)
	if err != nil {
		return nil, err
	}
	return NewContext(root, scale, tuning), nil
}

func (c *Context) Root() theory.Note {
	return c.root
}

func (c *Context) Scale() theory.Scale {
	return c.scale
}

func (c *Context) Tuning() theory.Tuning {
	return c.tuning
}

// StringCount returns the number of strings of the tuning
func (c *Context) StringCount() int {
	return c.tuning.StringCount()
}

func (c *Context) openNote(p Position) (theory.Note, error) {
	if p.Fret < 0 {
		return theory.Note{}, outOfRange(p, c.tuning.StringCount())
	}
	open, ok := c.tuning.Note(p.String)
	if !ok {
		return theory.Note{}, outOfRange(p, c.tuning.StringCount())
	}
	return open, nil
}

// ScaleDegreeByValue names an interval: the first declared scale degree with
// that value, otherwise the default name.
func (c *Context) ScaleDegreeByValue(interval int) theory.ScaleDegree {
	if d, ok := c.scale.DegreeByValue(interval); ok {
		return d
	}
	return theory.DefaultScaleDegree(interval)
}

// ScaleDegreeByPosition returns the degree sounding at p relative to the root
func (c *Context) ScaleDegreeByPosition(p Position) (theory.ScaleDegree, error) {
	open, err := c.openNote(p)
	if err != nil {
		return theory.ScaleDegree{}, err
	}
	return c.ScaleDegreeByValue(open.PitchClass() + p.Fret - c.root.PitchClass()), nil
}

// NoteByScaleDegree spells the note a degree above the root. The letter is
// the root letter stepped by the degree number; the accidental is the
// shorter of the sharp and flat runs reaching the target pitch class.
func (c *Context) NoteByScaleDegree(d theory.ScaleDegree) (theory.Note, error) {
	letter, accidental, err := c.spell(d)
	if err != nil {
		return theory.Note{}, err
	}
	return theory.NewNote(letter, accidental), nil
}

func (c *Context) spell(d theory.ScaleDegree) (theory.Letter, theory.Accidental, error) {
	letter := c.root.Letter().Step(d.NaturalDegree().Number() - 1)
	target := theory.Mod(c.root.PitchClass()+d.Value(), theory.PitchClasses)

	sharps := theory.Mod(target-letter.Value(), theory.PitchClasses)
	flats := theory.PitchClasses - sharps

	offset := sharps
	if sharps >= flats {
		offset = -flats
	}

	accidental, ok := theory.AccidentalFromOffset(offset)
	if !ok {
		return letter, theory.Natural, errors.Newf("%w: degree %s above %s needs %d accidentals (max %d)",
			theory.ErrInvalidIdentifier, d.ID(), c.root.ID(), abs(offset), theory.MaxAccidentalRun).
			Component("fretboard").
			Category(errors.CategoryInvalidIdentifier).
			Context("root", c.root.ID()).
			Context("degree", d.ID()).
			Build()
	}
	return letter, accidental, nil
}

// NoteByPosition spells the note sounding at p. When the tuning carries
// octaves the result carries the octave of the sounding pitch.
func (c *Context) NoteByPosition(p Position) (theory.Note, error) {
	open, err := c.openNote(p)
	if err != nil {
		return theory.Note{}, err
	}

	d := c.ScaleDegreeByValue(open.PitchClass() + p.Fret - c.root.PitchClass())
	letter, accidental, err := c.spell(d)
	if err != nil {
		return theory.Note{}, err
	}

	if !open.HasOctave() {
		return theory.NewNote(letter, accidental), nil
	}

	absolute := open.Value() + p.Fret
	natural := absolute - accidental.Offset() - letter.Value()
	return theory.NewNoteWithOctave(letter, accidental, natural/theory.PitchClasses+1), nil
}

// IsNoteInScale reports whether n's pitch class is a declared degree above the root
func (c *Context) IsNoteInScale(n theory.Note) bool {
	for _, d := range c.scale.Degrees() {
		if theory.Mod(c.root.PitchClass()+d.Value(), theory.PitchClasses) == n.PitchClass() {
			return true
		}
	}
	return false
}

// IsPositionInScale reports whether the degree at p is declared by the scale
func (c *Context) IsPositionInScale(p Position) (bool, error) {
	d, err := c.ScaleDegreeByPosition(p)
	if err != nil {
		return false, err
	}
	return c.scale.Contains(d), nil
}

// AllPositions enumerates every string and frets 0..MaxFret, string-major
func (c *Context) AllPositions() []Position {
	positions := make([]Position, 0, c.tuning.StringCount()*(MaxFret+1))
	for s := range c.tuning.StringCount() {
		for f := 0; f <= MaxFret; f++ {
			positions = append(positions, Position{String: s, Fret: f})
		}
	}
	return positions
}

// InScalePositions returns AllPositions filtered to scale members
func (c *Context) InScalePositions() []Position {
	return c.filterPositions(func(p Position) bool {
		ok, _ := c.IsPositionInScale(p)
		return ok
	})
}

// SameNotePositions returns every position whose pitch class equals n's
func (c *Context) SameNotePositions(n theory.Note) []Position {
	return c.filterPositions(func(p Position) bool {
		open, _ := c.tuning.Note(p.String)
		return theory.Mod(open.PitchClass()+p.Fret, theory.PitchClasses) == n.PitchClass()
	})
}

// PositionsInWindow returns every position with first <= fret <= last, plus
// fret 0 when open is set.
func (c *Context) PositionsInWindow(first, last int, open bool) []Position {
	return c.filterPositions(func(p Position) bool {
		return InWindow(p.Fret, first, last, open)
	})
}

// InWindow applies the fret window rule: fret 0 is shown only with open
// strings, other frets only inside [first, last].
func InWindow(fret, first, last int, open bool) bool {
	if fret == 0 {
		return open
	}
	return fret >= first && fret <= last
}

func (c *Context) filterPositions(keep func(Position) bool) []Position {
	var result []Position
	for _, p := range c.AllPositions() {
		if keep(p) {
			result = append(result, p)
		}
	}
	return result
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
