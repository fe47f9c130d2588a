package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/email"
	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
	"github.com/nyashahama/quiz-result-engine/internal/store"
)

// ResultStore is the subset of *store.Store the worker writes through.
type ResultStore interface {
	PersistResult(ctx context.Context, p store.PersistResultParams) (db.Result, error)
	MarkResultFailed(ctx context.Context, resultID uuid.UUID, reason string) (db.Result, error)
}

// Job holds the dependencies for the evaluate-and-deliver pipeline.
type Job struct {
	q       db.Querier
	results ResultStore
	catalog *quiz.Catalog
	engine  *engine.Engine
	mailer  email.Sender
	logger  *slog.Logger
}

// NewJob constructs a Job with all required dependencies.
func NewJob(
	q db.Querier,
	results ResultStore,
	catalog *quiz.Catalog,
	eng *engine.Engine,
	mailer email.Sender,
	logger *slog.Logger,
) *Job {
	return &Job{
		q:       q,
		results: results,
		catalog: catalog,
		engine:  eng,
		mailer:  mailer,
		logger:  logger,
	}
}

// Run executes the pipeline for a single result:
//
//  1. Load the result, its session and the session's quiz definition.
//  2. Load the raw answers and evaluate them.
//  3. Persist the summary atomically via store.PersistResult.
//  4. Email the result link when the session has an address.
//
// A *engine.ValidationError is permanent: the result is marked failed and Run
// returns nil so the Runner does not retry. Every other error is returned and
// retried.
func (j *Job) Run(ctx context.Context, resultID uuid.UUID) error {
	log := j.logger.With("result_id", resultID)
	log.Info("job: starting")

	// ── 1. Result, session, definition ────────────────────────────────────────
	result, err := j.q.GetResultByID(ctx, resultID)
	if err != nil {
		return fmt.Errorf("job: get result: %w", err)
	}
	if result.Status == db.ResultStatusReady || result.Status == db.ResultStatusError {
		log.Info("job: result already finalised, skipping", "status", result.Status)
		return nil
	}

	session, err := j.q.GetSessionByID(ctx, result.SessionID)
	if err != nil {
		return fmt.Errorf("job: get session: %w", err)
	}

	def, err := j.catalog.Get(ctx, session.QuizID)
	if err != nil {
		return fmt.Errorf("job: load quiz: %w", err)
	}

	// ── 2. Evaluate ───────────────────────────────────────────────────────────
	rows, err := j.q.GetAnswersBySession(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("job: get answers: %w", err)
	}
	log.Debug("job: loaded answers", "count", len(rows), "quiz_id", def.ID, "quiz_version", def.Version)

	summary, err := def.Evaluate(ctx, j.engine.With(engine.WithLogger(log)), RawAnswers(rows))
	if err != nil {
		if engine.IsValidationError(err) {
			log.Warn("job: answers cannot be evaluated, marking result failed", "error", err)
			_, markErr := j.results.MarkResultFailed(ctx, resultID, err.Error())
			if markErr != nil && !errors.Is(markErr, store.ErrResultFinalised) {
				return fmt.Errorf("job: mark result failed: %w", markErr)
			}
			return nil
		}
		return fmt.Errorf("job: evaluate: %w", err)
	}

	// ── 3. Persist ────────────────────────────────────────────────────────────
	final, err := j.results.PersistResult(ctx, store.PersistResultParams{
		ResultID:    resultID,
		QuizVersion: def.Version,
		Summary:     summary,
	})
	if err != nil {
		if errors.Is(err, store.ErrResultFinalised) {
			log.Info("job: result finalised concurrently, skipping")
			return nil
		}
		return fmt.Errorf("job: persist result: %w", err)
	}

	log.Info("job: result persisted",
		"warnings", final.WarningCount,
		"patterns", len(summary.Patterns),
	)

	// ── 4. Deliver ────────────────────────────────────────────────────────────
	// Email failure never fails the job: the result is reachable via its token.
	if !session.Email.Valid || session.Email.String == "" {
		log.Debug("job: session has no email address, skipping delivery email")
		return nil
	}
	if err := j.mailer.SendResultReady(ctx, email.ResultReadyParams{
		To:          session.Email.String,
		QuizTitle:   def.Title,
		AccessToken: final.AccessToken,
	}); err != nil {
		log.Error("job: failed to send result email", "to", session.Email.String, "error", err)
	}
	return nil
}

// RawAnswers converts stored answer rows into mapper input.
func RawAnswers(rows []db.Answer) []engine.RawAnswer {
	raws := make([]engine.RawAnswer, len(rows))
	for i, r := range rows {
		raws[i] = engine.RawAnswer{
			QuestionID: r.QuestionID,
			OptionID:   r.OptionID,
			Timestamp:  r.AnsweredAt,
		}
	}
	return raws
}
