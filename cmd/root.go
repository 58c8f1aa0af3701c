package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/fretboard-go/cmd/catalog"
	"github.com/tphakala/fretboard-go/cmd/position"
	"github.com/tphakala/fretboard-go/cmd/quiz"
	"github.com/tphakala/fretboard-go/cmd/serve"
	"github.com/tphakala/fretboard-go/cmd/show"
	"github.com/tphakala/fretboard-go/cmd/version"
	"github.com/tphakala/fretboard-go/internal/buildinfo"
	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/logger"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings, info *buildinfo.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fretboard",
		Short:        "Guitar fretboard trainer",
		Long:         "Explore scales on the guitar fretboard and practice finding notes and scale degrees.",
		SilenceUsage: true,
	}

	setupFlags(rootCmd, settings)

	versionCmd := version.Command(info)
	catalogCmd := catalog.Command()

	rootCmd.AddCommand(
		serve.Command(settings, info),
		show.Command(settings),
		position.Command(settings),
		quiz.Command(settings),
		catalogCmd,
		versionCmd,
	)

	var central *logger.CentralLogger
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// version and catalog listings need no logging
		if cmd == versionCmd || cmd.Parent() == catalogCmd {
			return nil
		}
		var err error
		central, err = initialize(settings)
		return err
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return central.Close()
	}

	return rootCmd
}

// initialize installs the central logger configured by settings
func initialize(settings *conf.Settings) (*logger.CentralLogger, error) {
	if settings.Debug {
		settings.Logging.DefaultLevel = "debug"
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = "debug"
		}
	}

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(central)
	return central, nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug output")
}
