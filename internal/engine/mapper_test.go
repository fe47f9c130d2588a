package engine_test

import (
	"testing"
	"time"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
)

var attachmentQuestion = engine.Question{
	ID:     "q1",
	Prompt: "When someone close to you is distant, you...",
	Options: []engine.Option{
		{ID: "a", Text: "Give them space", Weights: map[string]float64{"secure": 10, "growth": 2}},
		{ID: "b", Text: "Worry", Weights: map[string]float64{"anxious": 8, "mystery": 1}},
		{ID: "c", Text: "Shrug", Weights: nil},
		{ID: "d", Text: "Both", Weights: map[string]float64{"secure": 3, "secure_alt": 4}},
	},
}

func TestMapper_Map(t *testing.T) {
	m := engine.NewMapper(map[string]string{
		"secure":     "secure_attachment",
		"secure_alt": "secure_attachment",
		"growth":     "value_growth",
		"anxious":    "anxious_attachment",
	})
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name         string
		optionID     string
		wantOK       bool
		wantWeights  map[string]float64
		wantWarnings int
	}{
		{"translated", "a", true, map[string]float64{"secure_attachment": 10, "value_growth": 2}, 0},
		{"unmapped key dropped", "b", true, map[string]float64{"anxious_attachment": 8}, 1},
		{"no weights", "c", false, nil, 0},
		{"collapsing keys summed", "d", true, map[string]float64{"secure_attachment": 7}, 0},
		{"unknown option", "zzz", false, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ans, warnings, ok := m.Map(engine.RawAnswer{QuestionID: "q1", OptionID: tt.optionID, Timestamp: ts}, attachmentQuestion)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("warnings: got %v, want %d", warnings, tt.wantWarnings)
			}
			for _, w := range warnings {
				if w.Kind != engine.WarnMapping {
					t.Errorf("warning kind: got %q, want mapping", w.Kind)
				}
			}
			if !ok {
				return
			}
			if ans.QuestionID != "q1" || !ans.Timestamp.Equal(ts) {
				t.Errorf("answer metadata: got %+v", ans)
			}
			if len(ans.Weights) != len(tt.wantWeights) {
				t.Fatalf("weights: got %v, want %v", ans.Weights, tt.wantWeights)
			}
			for k, v := range tt.wantWeights {
				if ans.Weights[k] != v {
					t.Errorf("weights[%s]: got %v, want %v", k, ans.Weights[k], v)
				}
			}
		})
	}
}

func TestMapper_UnmappedKeyIsNotZeroed(t *testing.T) {
	m := engine.NewMapper(map[string]string{"anxious": "anxious_attachment"})
	ans, warnings, ok := m.Map(engine.RawAnswer{QuestionID: "q1", OptionID: "b"}, attachmentQuestion)
	if !ok {
		t.Fatal("expected a mapped answer")
	}
	if _, present := ans.Weights["mystery"]; present {
		t.Error("unmapped domain key must be dropped")
	}
	if len(warnings) != 1 || warnings[0].Subject != "mystery" {
		t.Errorf("expected one warning on mystery, got %v", warnings)
	}
}

func TestMapper_Identity(t *testing.T) {
	m := engine.NewMapper(nil)
	if !m.Identity() {
		t.Fatal("empty table should be identity")
	}
	ans, warnings, ok := m.Map(engine.RawAnswer{QuestionID: "q1", OptionID: "b"}, attachmentQuestion)
	if !ok || len(warnings) != 0 {
		t.Fatalf("identity map: ok=%v warnings=%v", ok, warnings)
	}
	if ans.Weights["anxious"] != 8 || ans.Weights["mystery"] != 1 {
		t.Errorf("identity weights: got %v", ans.Weights)
	}
}

func TestMapper_CopiesTable(t *testing.T) {
	table := map[string]string{"secure": "secure_attachment"}
	m := engine.NewMapper(table)
	table["secure"] = "changed"
	ans, _, _ := m.Map(engine.RawAnswer{QuestionID: "q1", OptionID: "a"}, attachmentQuestion)
	if _, ok := ans.Weights["secure_attachment"]; !ok {
		t.Errorf("mapper observed caller mutation: %v", ans.Weights)
	}
}

func TestMapper_MapAll(t *testing.T) {
	m := engine.NewMapper(map[string]string{"secure": "s", "growth": "g", "anxious": "x"})
	raws := []engine.RawAnswer{
		{QuestionID: "q1", OptionID: "a"},
		{QuestionID: "missing", OptionID: "a"},
		{QuestionID: "q1", OptionID: "c"},
	}
	answers, warnings := m.MapAll(raws, []engine.Question{attachmentQuestion})
	if len(answers) != 1 {
		t.Fatalf("answers: got %d, want 1", len(answers))
	}
	if len(warnings) != 1 || warnings[0].Subject != "missing" {
		t.Errorf("expected one warning on missing question, got %v", warnings)
	}
}
