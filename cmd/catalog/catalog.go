package catalog

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tphakala/fretboard-go/internal/exercise"
	"github.com/tphakala/fretboard-go/internal/theory"
)

// Command creates the catalog command with one subcommand per list.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the named scales, tunings, roots and exercises",
	}

	cmd.AddCommand(
		listCommand("scales", "List the named scales by category", writeScales),
		listCommand("tunings", "List the named tunings", writeTunings),
		listCommand("roots", "List the selectable root notes", writeRoots),
		listCommand("exercises", "List the exercise kinds", writeExercises),
	)
	return cmd
}

func listCommand(use, short string, write func(io.Writer) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return write(cmd.OutOrStdout())
		},
	}
}

func table(w io.Writer, header string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeScales(w io.Writer) error {
	scales := theory.Scales()
	rows := make([][]string, len(scales))
	for i, s := range scales {
		rows[i] = []string{s.Category, s.Slug, s.Name, s.ID}
	}
	return table(w, "CATEGORY\tSLUG\tNAME\tDEGREES", rows)
}

func writeTunings(w io.Writer) error {
	tunings := theory.Tunings()
	rows := make([][]string, len(tunings))
	for i, t := range tunings {
		rows[i] = []string{t.Slug, t.Name, t.ID}
	}
	return table(w, "SLUG\tNAME\tSTRINGS", rows)
}

func writeRoots(w io.Writer) error {
	roots := theory.Roots()
	names := make([]string, len(roots))
	for i, n := range roots {
		names[i] = n.Name()
	}
	_, err := fmt.Fprintln(w, strings.Join(names, " "))
	return err
}

func writeExercises(w io.Writer) error {
	kinds := exercise.Kinds()
	rows := make([][]string, len(kinds))
	for i, k := range kinds {
		rows[i] = []string{string(k), k.DisplayName()}
	}
	return table(w, "KIND\tNAME", rows)
}
