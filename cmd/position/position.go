package position

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tphakala/fretboard-go/cmd/boardflags"
	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/session"
)

// Command creates the position command, which names the note and scale
// degree at a string and fret.
func Command(settings *conf.Settings) *cobra.Command {
	var board boardflags.Flags

	cmd := &cobra.Command{
		Use:   "position <string> <fret>",
		Short: "Show the note and scale degree at a position",
		Long:  "Strings are counted from 0, the highest-pitched string. Fret 0 is the open string.",
		Example: "  fretboard position 0 5\n" +
			"  fretboard position 5 3 --root G --scale ionian",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseArgs(args)
			if err != nil {
				return err
			}
			s, err := board.Resolve(cmd.Context(), cmd, settings)
			if err != nil {
				return err
			}
			return Describe(cmd.OutOrStdout(), s, p)
		},
	}

	board.Register(cmd)
	return cmd
}

func parseArgs(args []string) (fretboard.Position, error) {
	var values [2]int
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fretboard.Position{}, errors.Newf("%q is not a number", arg).
				Component("cli").
				Category(errors.CategoryValidation).
				Build()
		}
		values[i] = v
	}
	return fretboard.Position{String: values[0], Fret: values[1]}, nil
}

// Describe writes the note, degree and scale membership of p
func Describe(w io.Writer, s session.Settings, p fretboard.Position) error {
	ctx, err := s.Context()
	if err != nil {
		return err
	}
	note, err := ctx.NoteByPosition(p)
	if err != nil {
		return err
	}
	degree, err := ctx.ScaleDegreeByPosition(p)
	if err != nil {
		return err
	}
	open, _ := ctx.Tuning().Note(p.String)

	inScale := "no"
	if ctx.IsNoteInScale(note) {
		inScale = "yes"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "string\t%d (%s)\n", p.String, open.Name())
	fmt.Fprintf(tw, "fret\t%d\n", p.Fret)
	fmt.Fprintf(tw, "note\t%s\n", note.Name())
	fmt.Fprintf(tw, "degree\t%s\n", degree.ID())
	fmt.Fprintf(tw, "in scale\t%s\n", inScale)
	return tw.Flush()
}
