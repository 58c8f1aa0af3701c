package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/session"
)

// Server owns the Echo instance and the API controller.
type Server struct {
	echo       *echo.Echo
	config     *Config
	logger     logger.Logger
	controller *Controller
}

// NewServer creates the HTTP server and registers every route.
func NewServer(cfg *Config, initial session.Settings, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{config: cfg, echo: echo.New()}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Server.ReadTimeout = cfg.ReadTimeout
	s.echo.Server.WriteTimeout = cfg.WriteTimeout
	s.echo.Server.IdleTimeout = cfg.IdleTimeout

	controller, err := New(s.echo, cfg, initial, opts...)
	if err != nil {
		return nil, err
	}
	s.controller = controller
	s.logger = controller.logger
	s.echo.Logger = logger.NewEchoLoggerAdapter(s.logger.Module("echo"))

	// echo applies Use middleware to every route, including ones already added
	s.echo.Use(echomw.Recover())
	s.echo.Use(NewRequestLogger(s.logger.Module("http")))
	if controller.metrics != nil {
		s.echo.Use(NewMetricsMiddleware(controller.metrics.HTTP))
	}
	s.echo.Use(echomw.BodyLimit(cfg.BodyLimit))

	s.logger.Info("HTTP server initialized", logger.String("address", cfg.Address()))
	return s, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))
		if err := s.echo.Start(s.config.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.New(err).
				Component("api").
				Category(errors.CategoryNetwork).
				Context("address", s.config.Address()).
				Build()
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops accepting requests and waits for in-flight work.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.Error("error during server shutdown", logger.Error(err))
		return errors.New(err).
			Component("api").
			Category(errors.CategoryHTTP).
			Build()
	}
	s.controller.Shutdown()

	s.logger.Info("server shutdown complete", logger.Duration("timeout", s.config.ShutdownTimeout))
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Controller returns the API controller.
func (s *Server) Controller() *Controller {
	return s.controller
}
