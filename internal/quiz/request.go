package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
)

// ErrMalformedRequest wraps every decoding failure of an EvaluateRequest so
// transports can tell a bad payload from an engine validation failure.
var ErrMalformedRequest = errors.New("quiz: malformed evaluate request")

// EvaluateRequest is the stateless evaluation document accepted by
// POST /api/evaluate and the ResultEngine RPC. Answers are already canonical:
// their weights are keyed by scale.
//
//	{
//	  "version": 3,
//	  "scales":  [{"key": "secure_attachment", "min": 0, "max": 40, "bands": [...]}],
//	  "rules":   [{"kind": "formula", "priority": 0, "payload": {...}}],
//	  "answers": [{"question_id": "q1", "weights": {"secure_attachment": 15}}]
//	}
type EvaluateRequest struct {
	Version int               `json:"version"`
	Scales  []engine.Scale    `json:"scales"`
	Rules   []json.RawMessage `json:"rules"`
	Answers []engine.Answer   `json:"answers"`
}

// DecodeEvaluateRequest strictly decodes data: unknown fields and trailing
// content are rejected.
func DecodeEvaluateRequest(data []byte) (EvaluateRequest, error) {
	var req EvaluateRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return EvaluateRequest{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return EvaluateRequest{}, fmt.Errorf("%w: trailing data after document", ErrMalformedRequest)
	}
	return req, nil
}

// Input parses the rules and assembles the engine input. Rule defects are
// reported together, wrapped in ErrMalformedRequest.
func (r EvaluateRequest) Input() (engine.Input, error) {
	rules, err := engine.ParseRules(r.Rules)
	if err != nil {
		return engine.Input{}, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	return engine.Input{
		Version: r.Version,
		Scales:  r.Scales,
		Rules:   rules,
		Answers: r.Answers,
	}, nil
}
