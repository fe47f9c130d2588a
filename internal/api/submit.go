package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/store"
)

// ─── POST /api/session/:sessionID/submit ──────────────────────────────────────

type submitRequest struct {
	// Email is optional. When set, the worker mails the result link.
	Email string `json:"email"`
}

type submitResponse struct {
	ResultID    string `json:"result_id"`
	AccessToken string `json:"access_token"`
	Status      string `json:"status"`
}

// handleSubmit closes the answering phase: it creates the draft result and
// hands it to the worker. A repeated submit returns the existing result and
// re-enqueues it while it is still pending, which covers a worker crash.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	var req submitRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	answered, err := s.q.CountAnswersBySession(r.Context(), session.ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("count answers: %w", err))
		return
	}
	if answered == 0 {
		respondErr(w, http.StatusUnprocessableEntity, "answer at least one question before submitting")
		return
	}

	if email := nullString(req.Email); email.Valid {
		if _, err := s.q.SetSessionEmail(r.Context(), db.SetSessionEmailParams{
			ID:    session.ID,
			Email: email,
		}); err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("set session email: %w", err))
			return
		}
	}

	result, err := s.store.InitialiseResult(r.Context(), session.ID)
	existing := errors.Is(err, store.ErrResultAlreadyExists)
	if err != nil && !existing {
		s.respondInternalErr(w, r, fmt.Errorf("initialise result: %w", err))
		return
	}

	pending := result.Status == db.ResultStatusDraft || result.Status == db.ResultStatusProcessing
	if pending {
		if err := s.worker.Enqueue(r.Context(), result.ID); err != nil {
			// The poller picks up anything left pending.
			s.logger.Warn("submit: enqueue failed, will be picked up by poller",
				"result_id", result.ID,
				"error", err,
				logField(r),
			)
		}
	}

	status := http.StatusAccepted
	if existing && !pending {
		status = http.StatusOK
	}
	respond(w, status, submitResponse{
		ResultID:    result.ID.String(),
		AccessToken: result.AccessToken,
		Status:      string(result.Status),
	})
}
