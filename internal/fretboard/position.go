// Package fretboard maps a root note, scale and tuning onto string/fret
// positions and holds the per-position content the presentation layer draws.
package fretboard

import (
	"github.com/tphakala/fretboard-go/internal/errors"
)

// MaxFret is the highest fret enumerated by position queries
const MaxFret = 24

// ErrOutOfRange is matched by every position or fret range failure
var ErrOutOfRange = errors.NewStd("position out of range")

func outOfRange(p Position, stringCount int) error {
	return errors.Newf("%w: string %d fret %d with %d strings", ErrOutOfRange, p.String, p.Fret, stringCount).
		Component("fretboard").
		Category(errors.CategoryOutOfRange).
		Context("string", p.String).
		Context("fret", p.Fret).
		Context("string_count", stringCount).
		Build()
}

// Position is a (string, fret) cell. String 0 is the highest-pitched string.
type Position struct {
	String int `json:"string"`
	Fret   int `json:"fret"`
}

func (p Position) Equal(other Position) bool {
	return p == other
}
