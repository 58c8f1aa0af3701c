package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/fretboard-go/internal/buildinfo"
)

// Command creates the version command
func Command(info *buildinfo.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "fretboard %s\n", info)
			return err
		},
	}
}
