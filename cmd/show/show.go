package show

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tphakala/fretboard-go/cmd/boardflags"
	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/render"
	"github.com/tphakala/fretboard-go/internal/session"
)

type options struct {
	board    boardflags.Flags
	outline  []string
	sameNote bool
	color    bool
}

// Command creates the show command, which prints a fretboard to the terminal.
func Command(settings *conf.Settings) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the fretboard for a root, scale and tuning",
		Long: "Print the scale markers of the selected fret window, one row per string with the highest string on top. " +
			"Outlined positions are shown in brackets.",
		Example: "  fretboard show --root E --scale dorian --first 1 --last 5\n" +
			"  fretboard show --labels notes --outline 0:5 --same-note",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.board.Resolve(cmd.Context(), cmd, settings)
			if err != nil {
				return err
			}
			return Show(cmd.OutOrStdout(), s, opts.outline, opts.sameNote, opts.color)
		},
	}

	setupFlags(cmd, &opts)
	return cmd
}

func setupFlags(cmd *cobra.Command, opts *options) {
	opts.board.Register(cmd)
	cmd.Flags().StringSliceVar(&opts.outline, "outline", nil, "Outline positions given as string:fret")
	cmd.Flags().BoolVar(&opts.sameNote, "same-note", false, "Outline every position sharing the note of each --outline")
	cmd.Flags().BoolVar(&opts.color, "color", !color.NoColor, "Color labels by scale degree")
}

// Show renders the settings with the given positions clicked
func Show(w io.Writer, s session.Settings, outline []string, sameNote, colored bool) error {
	ctrl, err := session.NewController(s)
	if err != nil {
		return err
	}

	for _, text := range outline {
		p, err := boardflags.ParsePosition(text)
		if err != nil {
			return err
		}
		if _, err := ctrl.Click(p, sameNote); err != nil {
			return err
		}
	}

	markers, err := ctrl.View()
	if err != nil {
		return err
	}
	return render.Text(w, s, markers, render.WithColor(colored))
}
