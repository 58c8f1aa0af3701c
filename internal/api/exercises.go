package api

import (
	"context"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tphakala/fretboard-go/internal/datastore"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/exercise"
	"github.com/tphakala/fretboard-go/internal/fretboard"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/mqtt"
	"github.com/tphakala/fretboard-go/internal/session"
)

const publishTimeout = 15 * time.Second

// ErrExerciseNotFound is returned for unknown or expired exercise sessions
var ErrExerciseNotFound = errors.NewStd("exercise session not found")

// exerciseSession is one running quiz. The exercise controller is not safe
// for concurrent use, so every access holds mu.
type exerciseSession struct {
	mu       sync.Mutex
	id       string
	settings session.Settings
	ctx      *fretboard.Context
	ctrl     exercise.Controller
	question exercise.Question
	asked    int
}

// StartExerciseRequest selects the exercise kind; empty uses mark-note
type StartExerciseRequest struct {
	Kind exercise.Kind `json:"kind"`
}

// ExerciseResponse carries the current question of a session
type ExerciseResponse struct {
	ID       string            `json:"id"`
	Kind     exercise.Kind     `json:"kind"`
	Name     string            `json:"name"`
	Asked    int               `json:"asked"`
	Question exercise.Question `json:"question"`
}

// AnswerRequest is the learner's selection
type AnswerRequest struct {
	Positions []fretboard.Position `json:"positions"`
}

// AnswerResponse grades a selection and reveals the answer key
type AnswerResponse struct {
	Correct  bool                 `json:"correct"`
	Expected []fretboard.Position `json:"expected"`
	Question exercise.Question    `json:"question"`
}

// ExerciseStatsResponse aggregates stored answers per kind
type ExerciseStatsResponse struct {
	Kind     string  `json:"kind"`
	Total    int64   `json:"total"`
	Correct  int64   `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

func (es *exerciseSession) response() ExerciseResponse {
	return ExerciseResponse{
		ID:       es.id,
		Kind:     es.ctrl.Kind(),
		Name:     es.ctrl.Name(),
		Asked:    es.asked,
		Question: es.question,
	}
}

// next asks a new question; the caller holds mu
func (es *exerciseSession) next() error {
	q, err := es.ctrl.NextQuestion()
	if err != nil {
		return err
	}
	es.question = q
	es.asked++
	return nil
}

// newRand returns the question source for a new session
func (c *Controller) newRand() *rand.Rand {
	if c.config.ExerciseSeed != 0 {
		return rand.New(rand.NewPCG(c.config.ExerciseSeed, c.config.ExerciseSeed))
	}
	return nil
}

// StartExercise creates an exercise session on the applied settings and asks
// its first question
func (c *Controller) StartExercise(ctx echo.Context) error {
	var req StartExerciseRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid exercise body", http.StatusBadRequest)
	}
	if req.Kind == "" {
		req.Kind = c.config.DefaultExercise
	}

	s := c.currentSettings()
	fc, err := s.Context()
	if err != nil {
		return c.fail(ctx, err, "Invalid settings")
	}
	ctrl, err := exercise.New(req.Kind, fc, s.Window(), c.newRand())
	if err != nil {
		c.logger.Debug("unknown exercise kind requested",
			logger.String("kind", string(req.Kind)),
			logger.Any("available", exerciseKinds()))
		return c.fail(ctx, err, "Unknown exercise kind")
	}

	es := &exerciseSession{id: uuid.NewString(), settings: s, ctx: fc, ctrl: ctrl}
	if err := es.next(); err != nil {
		return c.fail(ctx, err, "No question available for these settings")
	}

	c.exercises.SetDefault(es.id, es)
	c.updateActiveExercises()
	if c.metrics != nil {
		c.metrics.Fretboard.RecordQuestion(string(req.Kind))
	}

	c.logger.Debug("exercise started",
		logger.String("session_id", es.id),
		logger.String("kind", string(req.Kind)))
	return ctx.JSON(http.StatusCreated, es.response())
}

// lookup returns the session named by the :id parameter and refreshes its TTL
func (c *Controller) lookup(ctx echo.Context) (*exerciseSession, error) {
	id := ctx.Param("id")
	v, found := c.exercises.Get(id)
	if !found {
		return nil, errors.New(ErrExerciseNotFound).
			Component("api").
			Category(errors.CategoryNotFound).
			Context("session_id", id).
			Build()
	}
	es := v.(*exerciseSession)
	c.exercises.SetDefault(id, es)
	return es, nil
}

// NextQuestion asks the next question of a session
func (c *Controller) NextQuestion(ctx echo.Context) error {
	es, err := c.lookup(ctx)
	if err != nil {
		return c.fail(ctx, err, "Unknown exercise session")
	}

	es.mu.Lock()
	defer es.mu.Unlock()
	if err := es.next(); err != nil {
		return c.fail(ctx, err, "No question available for these settings")
	}
	if c.metrics != nil {
		c.metrics.Fretboard.RecordQuestion(string(es.ctrl.Kind()))
	}
	return ctx.JSON(http.StatusOK, es.response())
}

// AnswerQuestion grades the selection against the current question, stores
// the result and publishes it
func (c *Controller) AnswerQuestion(ctx echo.Context) error {
	es, err := c.lookup(ctx)
	if err != nil {
		return c.fail(ctx, err, "Unknown exercise session")
	}

	var req AnswerRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid answer body", http.StatusBadRequest)
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	selection := fretboard.NewData(es.ctx)
	if err := selection.SetPositions(req.Positions...); err != nil {
		return c.fail(ctx, err, "Invalid position in answer")
	}
	correct, err := es.ctrl.Validate(selection)
	if err != nil {
		return c.fail(ctx, err, "Failed to grade answer")
	}
	key, err := es.ctrl.AnswerKey()
	if err != nil {
		return c.fail(ctx, err, "Failed to grade answer")
	}

	kind := string(es.ctrl.Kind())
	if c.metrics != nil {
		c.metrics.Fretboard.RecordAnswer(kind, correct)
	}

	record := &datastore.AnswerRecord{
		SessionID: es.id,
		Kind:      kind,
		Question:  es.question.Text,
		Root:      es.settings.Root,
		Scale:     es.settings.Scale,
		Tuning:    es.settings.Tuning,
		Expected:  key.Len(),
		Selected:  selection.Len(),
		Correct:   correct,
	}
	if c.DS != nil {
		if err := c.DS.SaveAnswer(ctx.Request().Context(), record); err != nil {
			c.logger.Warn("failed to store answer",
				logger.String("session_id", es.id),
				logger.Error(err))
		}
	}
	c.publish(record)

	return ctx.JSON(http.StatusOK, AnswerResponse{
		Correct:  correct,
		Expected: key.Positions(),
		Question: es.question,
	})
}

// publish sends the graded answer in the background so a slow broker does
// not delay the response
func (c *Controller) publish(r *datastore.AnswerRecord) {
	if c.publisher == nil {
		return
	}
	msg := mqtt.AnswerMessage{
		SessionID: r.SessionID,
		Kind:      r.Kind,
		Question:  r.Question,
		Root:      r.Root,
		Scale:     r.Scale,
		Tuning:    r.Tuning,
		Expected:  r.Expected,
		Selected:  r.Selected,
		Correct:   r.Correct,
		Timestamp: time.Now().UTC(),
	}

	c.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := c.publisher.PublishAnswer(ctx, msg); err != nil {
			c.logger.Warn("failed to publish answer",
				logger.String("session_id", msg.SessionID),
				logger.Error(err))
		}
	})
}

// EndExercise discards a session
func (c *Controller) EndExercise(ctx echo.Context) error {
	if _, err := c.lookup(ctx); err != nil {
		return c.fail(ctx, err, "Unknown exercise session")
	}
	c.exercises.Delete(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

// GetExerciseStats returns stored answer accuracy per exercise kind
func (c *Controller) GetExerciseStats(ctx echo.Context) error {
	if c.DS == nil {
		return c.fail(ctx, notConfigured("datastore"), "Exercise statistics are unavailable")
	}
	stats, err := c.DS.AnswerStats(ctx.Request().Context())
	if err != nil {
		return c.fail(ctx, err, "Failed to load exercise statistics")
	}

	resp := make([]ExerciseStatsResponse, len(stats))
	for i, s := range stats {
		resp[i] = ExerciseStatsResponse{
			Kind:     s.Kind,
			Total:    s.Total,
			Correct:  s.Correct,
			Accuracy: s.Accuracy(),
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}
