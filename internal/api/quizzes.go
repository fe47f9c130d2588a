package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
)

// ─── GET /api/quiz ────────────────────────────────────────────────────────────

type quizSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Version int32  `json:"version"`
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	rows, err := s.q.ListQuizzes(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list quizzes: %w", err))
		return
	}
	out := make([]quizSummary, len(rows))
	for i, row := range rows {
		out[i] = quizSummary{ID: row.ID, Title: row.Title, Version: row.Version}
	}
	respond(w, http.StatusOK, map[string]any{"quizzes": out})
}

// ─── GET /api/quiz/:quizID ────────────────────────────────────────────────────

// handleGetQuiz serves the respondent-facing view of a quiz: questions and
// option text only. Weights, scales and rules never leave the server.
func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	def, err := s.quizzes.Get(r.Context(), chi.URLParam(r, "quizID"))
	if errors.Is(err, quiz.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "quiz not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("load quiz: %w", err))
		return
	}
	respond(w, http.StatusOK, def.Public())
}
