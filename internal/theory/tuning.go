package theory

import (
	"regexp"
	"slices"
	"strings"
)

// tuningTokenPattern matches one note at the head of a tuning identifier.
// Octaves may be negative, so the separator cannot be split on blindly.
var tuningTokenPattern = regexp.MustCompile(`^[A-G](?:bb|b|##|#)?(?:-?[0-9]+)?`)

// Tuning holds open-string notes. The identifier lists strings from lowest
// to highest; index 0 is the highest string.
type Tuning struct {
	notes []Note
}

// ParseTuning parses identifiers such as "E-A-D-G-B-E" or "E2-A2-D3-G3-B3-E4".
// Either every note carries an octave or none does.
func ParseTuning(id string) (Tuning, error) {
	var notes []Note
	rest := id
	for {
		token := tuningTokenPattern.FindString(rest)
		if token == "" {
			return Tuning{}, invalidIdentifier("tuning", id)
		}
		n, err := ParseNote(token)
		if err != nil {
			return Tuning{}, invalidIdentifier("tuning", id)
		}
		notes = append(notes, n)

		rest = rest[len(token):]
		if rest == "" {
			break
		}
		if !strings.HasPrefix(rest, idSeparator) {
			return Tuning{}, invalidIdentifier("tuning", id)
		}
		rest = rest[len(idSeparator):]
	}

	for _, n := range notes[1:] {
		if n.HasOctave() != notes[0].HasOctave() {
			return Tuning{}, invalidIdentifier("tuning", id)
		}
	}

	slices.Reverse(notes)
	return Tuning{notes: notes}, nil
}

// MustParseTuning panics on error
func MustParseTuning(id string) Tuning {
	t, err := ParseTuning(id)
	if err != nil {
		panic(err)
	}
	return t
}

// ID lists the strings low to high, exactly as parsed
func (t Tuning) ID() string {
	ids := make([]string, len(t.notes))
	for i, n := range t.notes {
		ids[len(t.notes)-1-i] = n.ID()
	}
	return strings.Join(ids, idSeparator)
}

func (t Tuning) String() string {
	return t.ID()
}

func (t Tuning) StringCount() int {
	return len(t.notes)
}

// Note returns the open note of a string; ok is false outside [0, StringCount)
func (t Tuning) Note(stringIndex int) (Note, bool) {
	if stringIndex < 0 || stringIndex >= len(t.notes) {
		return Note{}, false
	}
	return t.notes[stringIndex], true
}

// Notes returns a copy in internal order, highest string first
func (t Tuning) Notes() []Note {
	return slices.Clone(t.notes)
}

// HasOctaves reports whether the open notes carry octaves
func (t Tuning) HasOctaves() bool {
	return len(t.notes) > 0 && t.notes[0].HasOctave()
}

func (t Tuning) MarshalText() ([]byte, error) {
	return []byte(t.ID()), nil
}

func (t *Tuning) UnmarshalText(text []byte) error {
	parsed, err := ParseTuning(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
