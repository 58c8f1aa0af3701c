// Package theory holds the music-theory value types: notes, scale degrees,
// scales and tunings, plus the catalog of named scales and tunings.
//
// All types are immutable values parsed from lossless string identifiers:
//
//	note, err := theory.ParseNote("F#3")
//	scale, err := theory.ParseScale("1-b3-4-5-b7")
//	tuning, err := theory.ParseTuning("E-A-D-G-B-E")
package theory

import (
	"fmt"

	"github.com/tphakala/fretboard-go/internal/errors"
)

// ErrInvalidIdentifier is matched by every parse failure in this package
var ErrInvalidIdentifier = errors.NewStd("invalid identifier")

func invalidIdentifier(kind, id string) error {
	return errors.Newf("%w: %s %q", ErrInvalidIdentifier, kind, id).
		Component("theory").
		Category(errors.CategoryInvalidIdentifier).
		Context("kind", kind).
		Context("id", id).
		Build()
}

// Accidental is a semitone offset applied to a letter or degree number
type Accidental int

const (
	DoubleFlat  Accidental = -2
	Flat        Accidental = -1
	Natural     Accidental = 0
	Sharp       Accidental = 1
	DoubleSharp Accidental = 2
)

// MaxAccidentalRun is the longest run of flats or sharps a spelled note may carry
const MaxAccidentalRun = 2

// AccidentalFromOffset returns the accidental for a semitone offset in [-2, 2]
func AccidentalFromOffset(offset int) (Accidental, bool) {
	if offset < int(DoubleFlat) || offset > int(DoubleSharp) {
		return Natural, false
	}
	return Accidental(offset), true
}

func parseAccidental(s string) (Accidental, bool) {
	switch s {
	case "":
		return Natural, true
	case "b":
		return Flat, true
	case "bb":
		return DoubleFlat, true
	case "#":
		return Sharp, true
	case "##":
		return DoubleSharp, true
	}
	return Natural, false
}

// Offset returns the semitone shift
func (a Accidental) Offset() int {
	return int(a)
}

// ID returns the ASCII form used in identifiers: "bb", "b", "", "#" or "##"
func (a Accidental) ID() string {
	switch a {
	case DoubleFlat:
		return "bb"
	case Flat:
		return "b"
	case Sharp:
		return "#"
	case DoubleSharp:
		return "##"
	default:
		return ""
	}
}

// Text returns the typographic form
func (a Accidental) Text() string {
	switch a {
	case DoubleFlat:
		return "\U0001D12B"
	case Flat:
		return "♭"
	case Sharp:
		return "♯"
	case DoubleSharp:
		return "\U0001D12A"
	default:
		return ""
	}
}

func (a Accidental) String() string {
	if a == Natural {
		return "natural"
	}
	return a.ID()
}

// Mod returns the non-negative remainder of a divided by n
func Mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Letter is a natural note name in C-major order
type Letter int

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

const letterCount = 7

var (
	letterNames  = [letterCount]string{"C", "D", "E", "F", "G", "A", "B"}
	letterValues = [letterCount]int{0, 2, 4, 5, 7, 9, 11}
)

func parseLetter(s string) (Letter, bool) {
	for i, name := range letterNames {
		if name == s {
			return Letter(i), true
		}
	}
	return C, false
}

// Value returns the pitch class of the natural letter
func (l Letter) Value() int {
	return letterValues[Mod(int(l), letterCount)]
}

// Step returns the letter n positions later, cycling through C..B
func (l Letter) Step(n int) Letter {
	return Letter(Mod(int(l)+n, letterCount))
}

func (l Letter) String() string {
	if l < C || l > B {
		return fmt.Sprintf("Letter(%d)", int(l))
	}
	return letterNames[l]
}
