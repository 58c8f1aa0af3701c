package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/tphakala/fretboard-go/internal/datastore"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/exercise"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/mqtt"
	"github.com/tphakala/fretboard-go/internal/observability"
	"github.com/tphakala/fretboard-go/internal/session"
)

// AnswerPublisher receives every graded answer. *mqtt.AnswerPublisher implements it.
type AnswerPublisher interface {
	PublishAnswer(ctx context.Context, msg mqtt.AnswerMessage) error
}

// Controller manages the API routes and handlers
type Controller struct {
	Echo  *echo.Echo
	Group *echo.Group
	DS    datastore.Interface // optional; settings are not persisted without it

	config    *Config
	logger    logger.Logger
	metrics   *observability.Metrics
	publisher AnswerPublisher
	version   string

	// sessionMu guards session; the session controller is not safe for concurrent use
	sessionMu sync.Mutex
	session   *session.Controller

	viewCache *cache.Cache // rendered marker lists keyed by settings and outlines
	exercises *cache.Cache // *exerciseSession keyed by id

	startTime time.Time
	wg        sync.WaitGroup // background answer publishing
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithDataStore persists settings and answers in ds.
func WithDataStore(ds datastore.Interface) Option {
	return func(c *Controller) {
		c.DS = ds
	}
}

// WithMetrics records HTTP and fretboard metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithPublisher publishes graded answers.
func WithPublisher(p AnswerPublisher) Option {
	return func(c *Controller) {
		c.publisher = p
	}
}

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) Option {
	return func(c *Controller) {
		c.version = v
	}
}

// New creates a controller serving initial settings and registers its routes on e.
func New(e *echo.Echo, cfg *Config, initial session.Settings, opts ...Option) (*Controller, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sc, err := session.NewController(initial)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		Echo:      e,
		config:    cfg,
		session:   sc,
		viewCache: cache.New(cfg.ViewCacheTTL, 2*cfg.ViewCacheTTL),
		exercises: cache.New(cfg.SessionTTL, cfg.SessionTTL/2),
		startTime: time.Now(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = GetLogger()
	}

	c.exercises.OnEvicted(func(string, any) {
		c.updateActiveExercises()
	})

	c.initRoutes()
	return c, nil
}

// initRoutes registers all API routes
func (c *Controller) initRoutes() {
	c.Echo.GET("/health", c.HealthCheck)
	if c.config.MetricsEnabled && c.metrics != nil {
		c.Echo.GET(c.config.MetricsPath, echo.WrapHandler(c.metrics.Handler()))
	}

	c.Group = c.Echo.Group(APIPrefix)
	if c.config.RateLimit.Enabled {
		c.Group.Use(c.rateLimiter())
	}

	c.Group.GET("/health", c.HealthCheck)

	c.Group.GET("/catalog/scales", c.GetScales)
	c.Group.GET("/catalog/tunings", c.GetTunings)
	c.Group.GET("/catalog/roots", c.GetRoots)

	c.Group.GET("/settings", c.GetSettings)
	c.Group.PUT("/settings", c.UpdateSettings)
	c.Group.DELETE("/settings", c.ResetSettings)
	c.Group.GET("/settings/profiles", c.ListProfiles)

	c.Group.GET("/fretboard", c.GetFretboard)
	c.Group.POST("/fretboard/click", c.Click)
	c.Group.DELETE("/fretboard/outline", c.ClearOutlines)
	c.Group.GET("/positions/:string/:fret", c.GetPosition)

	c.Group.POST("/exercises", c.StartExercise)
	c.Group.GET("/exercises/stats", c.GetExerciseStats)
	c.Group.POST("/exercises/:id/next", c.NextQuestion)
	c.Group.POST("/exercises/:id/answer", c.AnswerQuestion)
	c.Group.DELETE("/exercises/:id", c.EndExercise)
}

// Shutdown waits for pending answer publications
func (c *Controller) Shutdown() {
	c.wg.Wait()
	c.logger.Debug("api controller stopped")
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: uuid.NewString()[:8],
	}
}

// statusFor maps an error category to an HTTP status
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.IsCategory(err, errors.CategoryInvalidIdentifier),
		errors.IsCategory(err, errors.CategoryValidation):
		return http.StatusBadRequest
	case errors.IsCategory(err, errors.CategoryOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsCategory(err, errors.CategoryState):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// categoryOf names the error category for metrics labels
func categoryOf(err error) string {
	var categorized errors.CategorizedError
	if errors.As(err, &categorized) {
		return string(categorized.ErrorCategory())
	}
	return string(errors.CategoryGeneric)
}

// HandleError logs err and writes it as an ErrorResponse with the given status
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	resp := NewErrorResponse(err, message, code)
	req := ctx.Request()

	fields := []logger.Field{
		logger.String("correlation_id", resp.CorrelationID),
		logger.String("message", message),
		logger.Int("code", code),
		logger.String("path", req.URL.Path),
		logger.String("method", req.Method),
		logger.String("ip", ctx.RealIP()),
		logger.Error(err),
	}
	if code >= http.StatusInternalServerError {
		c.logger.Error("api error", fields...)
	} else {
		c.logger.Debug("api request rejected", fields...)
	}

	if c.metrics != nil {
		c.metrics.HTTP.RecordError(req.Method, ctx.Path(), categoryOf(err))
	}
	return ctx.JSON(code, resp)
}

// fail derives the status from the error category
func (c *Controller) fail(ctx echo.Context, err error, message string) error {
	return c.HandleError(ctx, err, message, statusFor(err))
}

// notConfigured is returned by endpoints that need the datastore
func notConfigured(component string) error {
	return errors.Newf("%s is not configured", component).
		Component("api").
		Category(errors.CategoryState).
		Build()
}

// badRequest wraps a request decoding problem
func badRequest(err error, field string) error {
	return errors.New(err).
		Component("api").
		Category(errors.CategoryValidation).
		Context("field", field).
		Build()
}

func (c *Controller) updateActiveExercises() {
	if c.metrics != nil {
		c.metrics.Fretboard.SetActiveExercises(c.exercises.ItemCount())
	}
}

// exerciseKinds lists the kinds for error messages
func exerciseKinds() []string {
	kinds := exercise.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
