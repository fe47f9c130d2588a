package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
)

// ─── POST /api/evaluate ───────────────────────────────────────────────────────

// handleEvaluate runs the engine over a caller-supplied document (see
// quiz.EvaluateRequest) and returns the full ResultSummary, audit included.
// Nothing is persisted.
//
// 400: body unreadable, malformed JSON or a rule that does not parse.
// 422: the engine rejected the input (*engine.ValidationError).
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := quiz.DecodeEvaluateRequest(body)
	if err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := req.Input()
	if err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.engine.With(engine.WithLogger(s.logger.With(logField(r)))).EvaluateContext(r.Context(), in)
	var ve *engine.ValidationError
	switch {
	case errors.As(err, &ve):
		respondInvalid(w, ve)
		return
	case err != nil:
		s.respondInternalErr(w, r, fmt.Errorf("evaluate: %w", err))
		return
	}

	respond(w, http.StatusOK, summary)
}
