package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"github.com/sqlc-dev/pqtype"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// PersistResultParams is everything the worker hands to the store once the
// engine has produced a summary.
type PersistResultParams struct {
	ResultID    uuid.UUID
	QuizVersion int
	Summary     engine.ResultSummary
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrResultAlreadyExists is returned by InitialiseResult when the session was
// already submitted. The existing row is returned alongside it, so a repeated
// submit is an idempotent success.
var ErrResultAlreadyExists = errors.New("store: result already exists for session")

// ErrResultFinalised is returned by PersistResult and MarkResultFailed when the
// result is no longer draft or processing, e.g. a second worker already
// finished it.
var ErrResultFinalised = errors.New("store: result is already finalised")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// InitialiseResult creates the draft result row for a submitted session.
// The existence check and the insert share a serializable transaction so
// concurrent submits cannot create two rows.
func (s *Store) InitialiseResult(ctx context.Context, sessionID uuid.UUID) (db.Result, error) {
	var result db.Result

	token, err := newAccessToken()
	if err != nil {
		return db.Result{}, fmt.Errorf("InitialiseResult: %w", err)
	}

	err = s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		existing, err := q.GetResultBySessionID(ctx, sessionID)
		if err == nil {
			result = existing
			return ErrResultAlreadyExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("InitialiseResult: check existing result: %w", err)
		}

		created, err := q.CreateResult(ctx, db.CreateResultParams{
			SessionID:   sessionID,
			AccessToken: token,
		})
		if err != nil {
			return fmt.Errorf("InitialiseResult: create result: %w", err)
		}
		result = created
		return nil
	})

	if errors.Is(err, ErrResultAlreadyExists) {
		return result, ErrResultAlreadyExists
	}
	if err != nil {
		return db.Result{}, err
	}
	return result, nil
}

// PersistResult claims the result for processing and stores the summary
// snapshot in one transaction. If anything fails the row keeps its previous
// status and ListPendingResults will surface it again.
func (s *Store) PersistResult(ctx context.Context, p PersistResultParams) (db.Result, error) {
	summaryJSON, err := json.Marshal(p.Summary)
	if err != nil {
		return db.Result{}, fmt.Errorf("PersistResult: marshal summary: %w", err)
	}

	var result db.Result
	err = s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		if _, err := q.SetResultProcessing(ctx, p.ResultID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrResultFinalised
			}
			return fmt.Errorf("PersistResult: set processing: %w", err)
		}

		finalised, err := q.FinalizeResult(ctx, db.FinalizeResultParams{
			ID:           p.ResultID,
			QuizVersion:  sql.NullInt32{Int32: int32(p.QuizVersion), Valid: true},
			SummaryJson:  pqtype.NullRawMessage{RawMessage: summaryJSON, Valid: true},
			WarningCount: int32(len(p.Summary.Warnings)),
		})
		if err != nil {
			return fmt.Errorf("PersistResult: finalize result: %w", err)
		}
		result = finalised
		return nil
	})
	if err != nil {
		return db.Result{}, err
	}
	return result, nil
}

// MarkResultFailed sets the result status to error. The worker calls it for
// permanent failures: a validation error from the engine, or exhausted
// retries. A result that is already ready or error is left untouched and
// ErrResultFinalised is returned.
func (s *Store) MarkResultFailed(ctx context.Context, resultID uuid.UUID, reason string) (db.Result, error) {
	result, err := s.q.SetResultError(ctx, db.SetResultErrorParams{
		ID:           resultID,
		ErrorMessage: sql.NullString{String: reason, Valid: true},
	})
	if errors.Is(err, sql.ErrNoRows) {
		return db.Result{}, ErrResultFinalised
	}
	if err != nil {
		return db.Result{}, fmt.Errorf("MarkResultFailed: %w", err)
	}
	return result, nil
}

// newAccessToken returns an opaque 24-byte base64url token for result links.
func newAccessToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
