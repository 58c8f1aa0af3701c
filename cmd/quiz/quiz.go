package quiz

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/tphakala/fretboard-go/cmd/boardflags"
	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/exercise"
	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/session"
)

type options struct {
	board  boardflags.Flags
	count  int
	seed   uint64
	reveal bool
}

// Command creates the quiz command, which asks exercise questions on the
// terminal and grades the answers typed as string:fret positions.
func Command(settings *conf.Settings) *cobra.Command {
	opts := options{count: 5, seed: settings.Exercise.Seed}

	cmd := &cobra.Command{
		Use:   "quiz [kind]",
		Short: "Practice finding notes and scale degrees",
		Long: "Ask questions about the selected fret window. Answer each with every matching position as " +
			"string:fret pairs separated by spaces, e.g. \"0:5 3:7 5:5\". An empty line skips the question.",
		Example: "  fretboard quiz mark-degree --root E --scale dorian\n" +
			"  fretboard quiz --reveal --seed 42",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := exercise.Kind(settings.Exercise.DefaultKind)
			if len(args) == 1 {
				kind = exercise.Kind(args[0])
			}
			if kind == "" {
				kind = exercise.KindMarkNote
			}

			s, err := opts.board.Resolve(cmd.Context(), cmd, settings)
			if err != nil {
				return err
			}
			return Run(cmd.InOrStdin(), cmd.OutOrStdout(), s, kind, opts)
		},
	}

	setupFlags(cmd, &opts)
	return cmd
}

func setupFlags(cmd *cobra.Command, opts *options) {
	opts.board.Register(cmd)
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "Number of questions")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "Seed for reproducible questions, 0 picks a random seed")
	cmd.Flags().BoolVar(&opts.reveal, "reveal", false, "Print the answers instead of asking")
}

func kindNames() []string {
	kinds := exercise.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// Run asks opts.count questions, reading one answer line per question from in
func Run(in io.Reader, out io.Writer, s session.Settings, kind exercise.Kind, opts options) error {
	if opts.count < 1 {
		return errors.Newf("question count must be at least 1, got %d", opts.count).
			Component("cli").
			Category(errors.CategoryValidation).
			Build()
	}

	ctx, err := s.Context()
	if err != nil {
		return err
	}
	var rng *rand.Rand
	if opts.seed != 0 {
		rng = rand.New(rand.NewPCG(opts.seed, opts.seed))
	}
	ctrl, err := exercise.New(kind, ctx, s.Window(), rng)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %s %s, frets %d-%d\n", ctrl.Name(), s.Root, s.Scale, s.FirstFret, s.LastFret)

	scanner := bufio.NewScanner(in)
	asked, correct := 0, 0
	for asked < opts.count {
		q, err := ctrl.NextQuestion()
		if err != nil {
			return err
		}
		key, err := ctrl.AnswerKey()
		if err != nil {
			return err
		}
		asked++
		fmt.Fprintf(out, "%d. %s\n", asked, q.Text)

		if opts.reveal {
			fmt.Fprintf(out, "   answer: %s\n", boardflags.FormatPositions(key.Positions()))
			continue
		}

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			asked--
			fmt.Fprintln(out)
			break
		}

		ok, err := grade(ctrl, ctx, scanner.Text())
		switch {
		case err != nil:
			fmt.Fprintf(out, "   %v, expected %s\n", err, boardflags.FormatPositions(key.Positions()))
		case ok:
			correct++
			fmt.Fprintln(out, "   correct")
		default:
			fmt.Fprintf(out, "   wrong, expected %s\n", boardflags.FormatPositions(key.Positions()))
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.New(err).
			Component("cli").
			Category(errors.CategoryFileIO).
			Build()
	}

	if !opts.reveal {
		fmt.Fprintf(out, "score %d/%d\n", correct, asked)
	}
	return nil
}

func grade(ctrl exercise.Controller, ctx *fretboard.Context, line string) (bool, error) {
	positions, err := boardflags.ParsePositions(line)
	if err != nil {
		return false, err
	}
	selection := fretboard.NewData(ctx)
	if err := selection.SetPositions(positions...); err != nil {
		return false, err
	}
	return ctrl.Validate(selection)
}
