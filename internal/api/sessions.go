package api

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
)

// ─── POST /api/session ────────────────────────────────────────────────────────

type createSessionRequest struct {
	QuizID string `json:"quiz_id"`
}

type createSessionResponse struct {
	SessionID   string `json:"session_id"`
	AnonToken   string `json:"anon_token"`
	QuizVersion int    `json:"quiz_version"`
}

// handleCreateSession creates an anonymous session for one quiz. Called once
// when the respondent opens the quiz.
//
// The anon_token is returned to the browser and sent as X-Anon-Token on all
// subsequent session-scoped requests.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decode(w, r, &req) {
		return
	}
	req.QuizID = strings.TrimSpace(req.QuizID)
	if req.QuizID == "" {
		respondErr(w, http.StatusBadRequest, "quiz_id is required")
		return
	}

	def, err := s.quizzes.Get(r.Context(), req.QuizID)
	if errors.Is(err, quiz.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "quiz not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("load quiz: %w", err))
		return
	}

	// 32 random bytes → 64 hex chars.
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("generate anon token: %w", err))
		return
	}
	anonToken := hex.EncodeToString(tokenBytes)

	session, err := s.q.CreateSession(r.Context(), db.CreateSessionParams{
		QuizID:    def.ID,
		AnonToken: anonToken,
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create session: %w", err))
		return
	}

	respond(w, http.StatusCreated, createSessionResponse{
		SessionID:   session.ID.String(),
		AnonToken:   anonToken,
		QuizVersion: def.Version,
	})
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

// nullString converts a Go string to sql.NullString. Empty string → NULL.
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
