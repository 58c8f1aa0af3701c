// Package session owns the user-facing state: the settings that define the
// fretboard, their persisted form, and the set of outlined positions.
package session

import (
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/exercise"
	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/theory"
)

// Labels selects what is written on each marker
type Labels string

const (
	LabelsNotes        Labels = "notes"
	LabelsScaleDegrees Labels = "scale-degrees"
)

// Default settings
const (
	DefaultRoot      = "A"
	DefaultScale     = "1-b3-4-5-b7"
	DefaultTuning    = "E-A-D-G-B-E"
	DefaultFirstFret = 5
	DefaultLastFret  = 8
	DefaultLabels    = LabelsScaleDegrees
)

// MinFret is the lowest selectable window fret; fret 0 is governed by OpenStrings
const MinFret = 1

// ContextSettings names the root, scale and tuning by identifier
type ContextSettings struct {
	Root   string `json:"root"`
	Scale  string `json:"scale"`
	Tuning string `json:"tuning"`
}

// FretboardSettings controls the visible window and labels
type FretboardSettings struct {
	FirstFret   int    `json:"firstFret"`
	LastFret    int    `json:"lastFret"`
	OpenStrings bool   `json:"openStrings"`
	Labels      Labels `json:"labels"`
}

// Settings is the complete user configuration
type Settings struct {
	ContextSettings
	FretboardSettings
}

// DefaultSettings returns A minor pentatonic in standard tuning, frets 5 to 8
func DefaultSettings() Settings {
	return Settings{
		ContextSettings: ContextSettings{
			Root:   DefaultRoot,
			Scale:  DefaultScale,
			Tuning: DefaultTuning,
		},
		FretboardSettings: FretboardSettings{
			FirstFret: DefaultFirstFret,
			LastFret:  DefaultLastFret,
			Labels:    DefaultLabels,
		},
	}
}

// Context parses the identifiers into a fretboard Context. Scale and tuning
// may be catalog slugs.
func (s Settings) Context() (*fretboard.Context, error) {
	return fretboard.NewContextFromIDs(s.Root, s.Scale, s.Tuning)
}

// Window returns the fret window exercises grade against
func (s Settings) Window() exercise.Window {
	return exercise.Window{
		FirstFret:   s.FirstFret,
		LastFret:    s.LastFret,
		OpenStrings: s.OpenStrings,
	}
}

// Validate checks identifiers, the fret window and the label mode. Every
// interval above the root must be spellable, otherwise no view can be built.
func (s Settings) Validate() error {
	ctx, err := s.Context()
	if err != nil {
		return err
	}
	for v := range theory.PitchClasses {
		if _, err := ctx.NoteByScaleDegree(ctx.ScaleDegreeByValue(v)); err != nil {
			return err
		}
	}

	if s.FirstFret < MinFret || s.LastFret > fretboard.MaxFret || s.FirstFret > s.LastFret {
		return errors.Newf("%w: fret window %d-%d must lie within %d-%d",
			fretboard.ErrOutOfRange, s.FirstFret, s.LastFret, MinFret, fretboard.MaxFret).
			Component("session").
			Category(errors.CategoryOutOfRange).
			Context("first_fret", s.FirstFret).
			Context("last_fret", s.LastFret).
			Build()
	}

	switch s.Labels {
	case LabelsNotes, LabelsScaleDegrees:
	default:
		return errors.Newf("%w: labels %q", theory.ErrInvalidIdentifier, s.Labels).
			Component("session").
			Category(errors.CategoryInvalidIdentifier).
			Build()
	}

	return nil
}
