package theory

import (
	"regexp"
	"strconv"
)

var noteIDPattern = regexp.MustCompile(`^([A-G])(b|bb|#|##)?(-?[0-9]+)?$`)

// PitchClasses is the number of distinct pitch classes
const PitchClasses = 12

// Note is a letter, an accidental and an optional octave
type Note struct {
	letter     Letter
	accidental Accidental
	octave     int
	hasOctave  bool
}

// ParseNote parses identifiers such as "A", "Bb", "F##" or "C#4"
func ParseNote(id string) (Note, error) {
	m := noteIDPattern.FindStringSubmatch(id)
	if m == nil {
		return Note{}, invalidIdentifier("note", id)
	}

	letter, _ := parseLetter(m[1])
	accidental, _ := parseAccidental(m[2])
	n := Note{letter: letter, accidental: accidental}

	if m[3] != "" {
		octave, err := strconv.Atoi(m[3])
		if err != nil {
			return Note{}, invalidIdentifier("note", id)
		}
		n.octave = octave
		n.hasOctave = true
	}
	return n, nil
}

// MustParseNote is ParseNote for trusted literals; it panics on error
func MustParseNote(id string) Note {
	n, err := ParseNote(id)
	if err != nil {
		panic(err)
	}
	return n
}

// NewNote builds a note without an octave
func NewNote(letter Letter, accidental Accidental) Note {
	return Note{letter: letter.Step(0), accidental: accidental}
}

// NewNoteWithOctave builds a note carrying an octave
func NewNoteWithOctave(letter Letter, accidental Accidental, octave int) Note {
	return Note{letter: letter.Step(0), accidental: accidental, octave: octave, hasOctave: true}
}

// Value is the pitch class without an octave, otherwise the absolute semitone
// number (octave-1)*12 + letter + accidental.
func (n Note) Value() int {
	v := n.letter.Value() + n.accidental.Offset()
	if !n.hasOctave {
		return Mod(v, PitchClasses)
	}
	return (n.octave-1)*PitchClasses + v
}

// PitchClass returns Value reduced into [0, 12)
func (n Note) PitchClass() int {
	return Mod(n.Value(), PitchClasses)
}

func (n Note) HasOctave() bool {
	return n.hasOctave
}

// Octave returns the octave, zero when the note has none
func (n Note) Octave() int {
	return n.octave
}

func (n Note) Letter() Letter {
	return n.letter
}

func (n Note) Accidental() Accidental {
	return n.accidental
}

// Name is letter plus accidental, never the octave
func (n Note) Name() string {
	return n.letter.String() + n.accidental.ID()
}

// ID is the lossless identifier ParseNote accepts
func (n Note) ID() string {
	if !n.hasOctave {
		return n.Name()
	}
	return n.Name() + strconv.Itoa(n.octave)
}

func (n Note) String() string {
	return n.ID()
}

// Text renders the note with musical glyphs, e.g. "B♭3"
func (n Note) Text() string {
	s := n.letter.String() + n.accidental.Text()
	if n.hasOctave {
		s += strconv.Itoa(n.octave)
	}
	return s
}

// NaturalNote drops the accidental and keeps the octave
func (n Note) NaturalNote() Note {
	n.accidental = Natural
	return n
}

// Equal reports identical identifiers
func (n Note) Equal(other Note) bool {
	return n.ID() == other.ID()
}

// Same reports enharmonic equivalence up to octave
func (n Note) Same(other Note) bool {
	return n.PitchClass() == other.PitchClass()
}

// MarshalText encodes the note as its identifier
func (n Note) MarshalText() ([]byte, error) {
	return []byte(n.ID()), nil
}

// UnmarshalText parses an identifier
func (n *Note) UnmarshalText(text []byte) error {
	parsed, err := ParseNote(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
