package quiz_test

import (
	"errors"
	"testing"

	"github.com/nyashahama/quiz-result-engine/internal/quiz"
)

const evaluateDoc = `{
  "version": 2,
  "scales": [{"key": "s", "min": 0, "max": 10, "bands": [{"upper_bound": 5, "label": "low"}, {"upper_bound": 10, "label": "high"}]}],
  "rules": [{"kind": "threshold", "priority": 0, "payload": {"scale_key": "s"}}],
  "answers": [{"question_id": "q1", "weights": {"s": 7}}]
}`

func TestDecodeEvaluateRequest(t *testing.T) {
	req, err := quiz.DecodeEvaluateRequest([]byte(evaluateDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	in, err := req.Input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.Version != 2 || len(in.Scales) != 1 || len(in.Rules) != 1 || len(in.Answers) != 1 {
		t.Errorf("input: %+v", in)
	}
	if in.Answers[0].Weights["s"] != 7 {
		t.Errorf("weights: %v", in.Answers[0].Weights)
	}
}

func TestDecodeEvaluateRequest_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"unknown field", `{"version": 1, "extra": true}`},
		{"trailing data", `{"version": 1} {}`},
		{"wrong type", `{"scales": "nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quiz.DecodeEvaluateRequest([]byte(tt.doc))
			if !errors.Is(err, quiz.ErrMalformedRequest) {
				t.Errorf("expected ErrMalformedRequest, got %v", err)
			}
		})
	}
}

func TestEvaluateRequest_BadRuleIsMalformed(t *testing.T) {
	req, err := quiz.DecodeEvaluateRequest([]byte(`{"rules": [{"kind": "formula", "payload": {"name": "x", "expression": "a +"}}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := req.Input(); !errors.Is(err, quiz.ErrMalformedRequest) {
		t.Errorf("expected ErrMalformedRequest, got %v", err)
	}
}
