// Package boardflags holds the fretboard selection flags shared by the
// terminal commands.
package boardflags

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/datastore"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/session"
)

// Flags selects the fretboard a command works on. Unset flags keep the
// value of the profile, or the defaults when no profile is named.
type Flags struct {
	Profile string
	Root    string
	Scale   string
	Tuning  string
	Labels  string
	First   int
	Last    int
	Open    bool
}

// Register adds the flags to cmd
func (f *Flags) Register(cmd *cobra.Command) {
	defaults := session.DefaultSettings()
	cmd.Flags().StringVar(&f.Profile, "profile", "", "Start from a settings profile saved by the server")
	cmd.Flags().StringVarP(&f.Root, "root", "r", defaults.Root, "Root note, e.g. A, F# or Bb")
	cmd.Flags().StringVarP(&f.Scale, "scale", "s", defaults.Scale, "Scale as degrees (1-b3-4-5-b7) or catalog name (dorian)")
	cmd.Flags().StringVarP(&f.Tuning, "tuning", "t", defaults.Tuning, "Tuning from lowest to highest string (E-A-D-G-B-E) or catalog name")
	cmd.Flags().StringVar(&f.Labels, "labels", string(defaults.Labels), "Marker labels: notes or scale-degrees")
	cmd.Flags().IntVar(&f.First, "first", defaults.FirstFret, "First fret of the window")
	cmd.Flags().IntVar(&f.Last, "last", defaults.LastFret, "Last fret of the window")
	cmd.Flags().BoolVar(&f.Open, "open", defaults.OpenStrings, "Include open strings")
}

// Resolve builds validated settings from the profile and the flags that were
// set on the command line
func (f *Flags) Resolve(ctx context.Context, cmd *cobra.Command, settings *conf.Settings) (session.Settings, error) {
	s := session.DefaultSettings()
	if f.Profile != "" {
		loaded, err := loadProfile(ctx, settings, f.Profile)
		if err != nil {
			return s, err
		}
		s = loaded
	}

	changed := cmd.Flags().Changed
	if changed("root") {
		s.Root = f.Root
	}
	if changed("scale") {
		s.Scale = f.Scale
	}
	if changed("tuning") {
		s.Tuning = f.Tuning
	}
	if changed("labels") {
		s.Labels = session.Labels(f.Labels)
	}
	if changed("first") {
		s.FirstFret = f.First
	}
	if changed("last") {
		s.LastFret = f.Last
	}
	if changed("open") {
		s.OpenStrings = f.Open
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// loadProfile reads a saved profile. Unlike the server, a missing or
// unreadable profile is an error since it was asked for explicitly.
func loadProfile(ctx context.Context, settings *conf.Settings, profile string) (session.Settings, error) {
	log := logger.Global().Module("cli")

	ds, err := datastore.New(&settings.Database, log)
	if err != nil {
		return session.Settings{}, err
	}
	if err := ds.Open(); err != nil {
		return session.Settings{}, err
	}
	defer func() {
		if err := ds.Close(); err != nil {
			log.Warn("failed to close datastore", logger.Error(err))
		}
	}()

	blob, err := ds.LoadSettings(ctx, profile)
	if err != nil {
		return session.Settings{}, err
	}
	return session.Decode(blob)
}

// ParsePosition reads a position written as "string:fret", e.g. "0:5"
func ParsePosition(text string) (fretboard.Position, error) {
	stringPart, fretPart, ok := strings.Cut(text, ":")
	if !ok {
		return fretboard.Position{}, invalidPosition(text, nil)
	}
	str, err := strconv.Atoi(strings.TrimSpace(stringPart))
	if err != nil {
		return fretboard.Position{}, invalidPosition(text, err)
	}
	fret, err := strconv.Atoi(strings.TrimSpace(fretPart))
	if err != nil {
		return fretboard.Position{}, invalidPosition(text, err)
	}
	return fretboard.Position{String: str, Fret: fret}, nil
}

// ParsePositions reads whitespace or comma separated positions
func ParsePositions(text string) ([]fretboard.Position, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	positions := make([]fretboard.Position, 0, len(fields))
	for _, field := range fields {
		p, err := ParsePosition(field)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// FormatPositions writes positions the way ParsePositions reads them
func FormatPositions(positions []fretboard.Position) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(p.String) + ":" + strconv.Itoa(p.Fret)
	}
	return strings.Join(parts, " ")
}

func invalidPosition(text string, cause error) error {
	b := errors.Newf("invalid position %q, expected string:fret", text)
	if cause != nil {
		b = b.Context("cause", cause.Error())
	}
	return b.
		Component("cli").
		Category(errors.CategoryInvalidIdentifier).
		Context("position", text).
		Build()
}
