package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/engine"
)

// ─── GET /api/result/:accessToken ─────────────────────────────────────────────

// resultView is the respondent-facing summary. The audit trail is internal
// and never served.
type resultView struct {
	ScaleScores     []engine.ScaleScore     `json:"scale_scores"`
	Interpretations []engine.Interpretation `json:"interpretations"`
	CompositeScores []engine.CompositeScore `json:"composite_scores"`
	Patterns        []engine.Pattern        `json:"patterns"`
	Warnings        []engine.Warning        `json:"warnings"`
}

type resultResponse struct {
	ResultID    string     `json:"result_id"`
	Status      string     `json:"status"`
	QuizID      string     `json:"quiz_id"`
	QuizVersion int32      `json:"quiz_version"`
	Premium     bool       `json:"premium"`
	Clean       bool       `json:"clean"`
	Summary     resultView `json:"summary"`
	GeneratedAt string     `json:"generated_at,omitempty"`
}

// handleGetResult serves a generated result. The access token is the opaque
// 24-byte base64url string issued at submit; no session auth is needed.
//
// Returns 404 for an unknown token, 202 while the result is pending so the
// client can poll, and 422 with status "error" when generation failed for
// good. Band recommendations are premium: they are stripped unless the
// session is paid.
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	accessToken := chi.URLParam(r, "accessToken")
	if accessToken == "" {
		respondErr(w, http.StatusBadRequest, "missing access token")
		return
	}

	row, err := s.q.GetResultByAccessToken(r.Context(), accessToken)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get result: %w", err))
		return
	}

	switch row.Status {
	case db.ResultStatusReady:
	case db.ResultStatusError:
		respond(w, http.StatusUnprocessableEntity, map[string]string{
			"status": string(row.Status),
			"error":  row.ErrorMessage.String,
		})
		return
	default:
		respond(w, http.StatusAccepted, map[string]string{
			"status":  string(row.Status),
			"message": "result is being generated, please check back shortly",
		})
		return
	}

	var summary engine.ResultSummary
	if !row.SummaryJson.Valid {
		s.respondInternalErr(w, r, fmt.Errorf("result %s is ready without a summary", row.ID))
		return
	}
	if err := json.Unmarshal(row.SummaryJson.RawMessage, &summary); err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("decode summary of %s: %w", row.ID, err))
		return
	}

	premium := premiumUnlocked(row.PaymentStatus)
	generatedAt := ""
	if row.GeneratedAt.Valid {
		generatedAt = row.GeneratedAt.Time.UTC().Format(time.RFC3339)
	}

	respond(w, http.StatusOK, resultResponse{
		ResultID:    row.ID.String(),
		Status:      string(row.Status),
		QuizID:      row.QuizID,
		QuizVersion: row.QuizVersion.Int32,
		Premium:     premium,
		Clean:       summary.Clean(),
		Summary: resultView{
			ScaleScores:     summary.ScaleScores,
			Interpretations: interpretationsFor(summary.Interpretations, premium),
			CompositeScores: summary.CompositeScores,
			Patterns:        summary.Patterns,
			Warnings:        summary.Warnings,
		},
		GeneratedAt: generatedAt,
	})
}

// interpretationsFor copies in, dropping recommendations unless premium.
func interpretationsFor(in []engine.Interpretation, premium bool) []engine.Interpretation {
	out := make([]engine.Interpretation, len(in))
	copy(out, in)
	if !premium {
		for i := range out {
			out[i].Recommendations = nil
		}
	}
	return out
}
