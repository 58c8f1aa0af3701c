package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/fretboard-go/internal/api"
	"github.com/tphakala/fretboard-go/internal/buildinfo"
	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/datastore"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/mqtt"
	"github.com/tphakala/fretboard-go/internal/observability"
)

const sentryFlushTimeout = 2 * time.Second

// Command creates the serve command, which runs the HTTP API.
func Command(settings *conf.Settings, info *buildinfo.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the fretboard HTTP API",
		Long: "Serve the fretboard view, settings and exercises over HTTP. Settings are restored from the " +
			"configured profile and graded answers are stored and optionally published over MQTT.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(ctx, settings, info)
		},
	}

	setupFlags(cmd, settings)
	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.WebServer.Host, "host", settings.WebServer.Host, "Listen address, empty for all interfaces")
	cmd.Flags().StringVarP(&settings.WebServer.Port, "port", "p", settings.WebServer.Port, "Listen port")
	cmd.Flags().StringVar(&settings.Main.Profile, "profile", settings.Main.Profile, "Settings profile restored at startup")
	cmd.Flags().BoolVar(&settings.Metrics.Enabled, "metrics", settings.Metrics.Enabled, "Expose Prometheus metrics")
	cmd.Flags().BoolVar(&settings.MQTT.Enabled, "mqtt", settings.MQTT.Enabled, "Publish graded answers to the MQTT broker")
	cmd.Flags().Uint64Var(&settings.Exercise.Seed, "seed", settings.Exercise.Seed, "Seed for reproducible exercises, 0 picks a random seed")
}

// Run starts the server and blocks until ctx is cancelled or the server fails
func Run(ctx context.Context, settings *conf.Settings, info *buildinfo.Context) error {
	log := logger.Global().Module("serve")

	if !settings.WebServer.Enabled {
		return errors.Newf("webserver is disabled in the configuration").
			Component("serve").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Telemetry.Enabled {
		if err := initTelemetry(settings, info); err != nil {
			log.Warn("error reporting disabled", logger.Error(err))
		} else {
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	m, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	ds, err := datastore.New(&settings.Database, logger.Global().Module("datastore"))
	if err != nil {
		return err
	}
	ds.SetMetrics(m.Datastore)
	if err := ds.Open(); err != nil {
		return err
	}
	defer func() {
		if err := ds.Close(); err != nil {
			log.Warn("failed to close datastore", logger.Error(err))
		}
	}()

	initial := api.LoadSettings(ctx, ds, settings.Main.Profile, log)

	opts := []api.Option{
		api.WithDataStore(ds),
		api.WithMetrics(m),
		api.WithVersion(info.Version()),
		api.WithLogger(logger.Global().Module("api")),
	}

	var client mqtt.Client
	if settings.MQTT.Enabled {
		clientID := fmt.Sprintf("%s-%s", settings.Main.Name, uuid.NewString()[:8])
		client, err = mqtt.NewClient(mqtt.ConfigFromSettings(&settings.MQTT, clientID), logger.Global().Module("mqtt"), m.MQTT)
		if err != nil {
			return err
		}
		defer client.Disconnect()
		opts = append(opts, api.WithPublisher(mqtt.NewAnswerPublisher(client, settings.MQTT.Topic, logger.Global().Module("mqtt"))))
	}

	server, err := api.NewServer(api.ConfigFromSettings(settings), initial, opts...)
	if err != nil {
		return err
	}

	log.Info("starting fretboard server",
		logger.String("version", info.Version()),
		logger.String("profile", settings.Main.Profile),
		logger.String("datastore", ds.Driver()),
		logger.Bool("mqtt", client != nil))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	if client != nil {
		// a broker that is down at startup is retried on the first publish
		g.Go(func() error {
			if err := client.Connect(gctx); err != nil {
				log.Warn("mqtt broker unavailable", logger.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("fretboard server stopped")
	return nil
}

// initTelemetry starts the Sentry client and routes enhanced errors to it
func initTelemetry(settings *conf.Settings, info *buildinfo.Context) error {
	if settings.Telemetry.DSN == "" {
		return errors.Newf("telemetry is enabled but no dsn is configured").
			Component("serve").
			Category(errors.CategoryConfiguration).
			Build()
	}

	environment := settings.Telemetry.Environment
	if environment == "" {
		environment = "production"
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Telemetry.DSN,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      environment,
		ServerName:       "",
		Release:          fmt.Sprintf("fretboard@%s", info.Version()),
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	return nil
}
