package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
)

const (
	fixtureQuiz    = "../../internal/quiz/testdata/attachment.yaml"
	fixtureAnswers = "../../internal/quiz/testdata/answers.json"
)

// execute runs rootCmd with args and returns stdout. Flag globals are reset
// first since cobra keeps them between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	quizFile, answersFile, pretty, verbose = "", "", false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", "--quiz", fixtureQuiz)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "ok attachment-v1 v3") {
		t.Errorf("output: %q", out)
	}
}

func TestValidate_RejectsBrokenQuiz(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	doc := "id: x\nversion: 1\nscales: [{key: s, max: 1}]\nrules:\n  - {kind: formula, payload: {name: f, expression: 'missing + 1'}}\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "validate", "--quiz", path); err == nil {
		t.Error("expected error for undeclared scale reference")
	}
}

func TestEvaluate_PrintsSummary(t *testing.T) {
	out, err := execute(t, "evaluate", "--quiz", fixtureQuiz, "--answers", fixtureAnswers, "--pretty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var summary engine.ResultSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("output is not a summary: %v\n%s", err, out)
	}
	if summary.Version != 3 {
		t.Errorf("version: got %d", summary.Version)
	}
	if len(summary.ScaleScores) != 4 {
		t.Errorf("scale scores: got %d", len(summary.ScaleScores))
	}
	if len(summary.Audit) != 6 {
		t.Errorf("audit steps: got %d", len(summary.Audit))
	}
}

func TestEvaluate_Errors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(empty, []byte(`[]`), 0o600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []string
	}{
		{"missing quiz", []string{"evaluate", "--answers", fixtureAnswers}},
		{"missing answers", []string{"evaluate", "--quiz", fixtureQuiz}},
		{"no answers", []string{"evaluate", "--quiz", fixtureQuiz, "--answers", empty}},
		{"answers file not found", []string{"evaluate", "--quiz", fixtureQuiz, "--answers", "nope.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPublish_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	databaseURL, dbDriver = "", ""
	_, err := execute(t, "publish", "--quiz", fixtureQuiz)
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("expected DATABASE_URL error, got %v", err)
	}
}
