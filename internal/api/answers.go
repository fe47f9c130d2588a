package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/nyashahama/quiz-result-engine/internal/db"
)

// ─── PUT /api/session/:sessionID/answers ─────────────────────────────────────
//
// Accepts a batch of selections and upserts them. The browser may resend the
// full answer set on every navigation: a repeated question_id replaces the
// earlier option, so replaying a payload is safe. Once the session has been
// submitted its answers are frozen and further writes get 409.

type answerInput struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

type upsertAnswersRequest struct {
	Answers []answerInput `json:"answers"`
}

type upsertAnswersResponse struct {
	Upserted int   `json:"upserted"`
	Answered int64 `json:"answered"`
}

const maxAnswersPerRequest = 100

// handleUpsertAnswers validates the whole batch against the session's quiz
// before writing anything, then upserts each answer. A write failure midway
// returns 500; retrying the full batch is idempotent.
func (s *Server) handleUpsertAnswers(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	var req upsertAnswersRequest
	if !decode(w, r, &req) {
		return
	}

	if len(req.Answers) == 0 {
		respondErr(w, http.StatusBadRequest, "answers must not be empty")
		return
	}
	if len(req.Answers) > maxAnswersPerRequest {
		respondErr(w, http.StatusBadRequest, fmt.Sprintf("too many answers in a single request (max %d)", maxAnswersPerRequest))
		return
	}

	if _, err := s.q.GetResultBySessionID(r.Context(), session.ID); err == nil {
		respondErr(w, http.StatusConflict, "session already submitted, answers can no longer change")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.respondInternalErr(w, r, fmt.Errorf("check result: %w", err))
		return
	}

	def, err := s.quizzes.Get(r.Context(), session.QuizID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("load quiz %s: %w", session.QuizID, err))
		return
	}

	for _, a := range req.Answers {
		if a.QuestionID == "" || a.OptionID == "" {
			respondErr(w, http.StatusBadRequest, "each answer needs a question_id and an option_id")
			return
		}
		if !def.HasOption(a.QuestionID, a.OptionID) {
			respondErr(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("question %q has no option %q", a.QuestionID, a.OptionID))
			return
		}
	}

	upserted := 0
	for _, a := range req.Answers {
		if _, err := s.q.UpsertAnswer(r.Context(), db.UpsertAnswerParams{
			SessionID:  session.ID,
			QuestionID: a.QuestionID,
			OptionID:   a.OptionID,
		}); err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("upsert answer %q: %w", a.QuestionID, err))
			return
		}
		upserted++
	}

	answered, err := s.q.CountAnswersBySession(r.Context(), session.ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("count answers: %w", err))
		return
	}

	respond(w, http.StatusOK, upsertAnswersResponse{Upserted: upserted, Answered: answered})
}
