package engine_test

import (
	"testing"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
)

// ─── EvaluateThresholds ───────────────────────────────────────────────────────

func TestEvaluateThresholds_UsesScaleBands(t *testing.T) {
	scales := []engine.Scale{{Key: "secure_attachment", Min: 0, Max: 40, Bands: lowHigh()}}
	scores := map[string]float64{"secure_attachment": 25}
	rules := []engine.Rule{mustThreshold(t, 0, "secure_attachment")}

	got, warnings := engine.EvaluateThresholds(scales, scores, rules)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(got) != 1 {
		t.Fatalf("got %d interpretations, want 1", len(got))
	}
	if got[0].Label != "high" || got[0].Title != "High" {
		t.Errorf("got %+v, want label high", got[0])
	}
	if len(got[0].Recommendations) != 1 || got[0].Recommendations[0] != "keep going" {
		t.Errorf("recommendations: got %v", got[0].Recommendations)
	}
}

func TestEvaluateThresholds_BandOverride(t *testing.T) {
	scales := []engine.Scale{{Key: "s", Min: 0, Max: 40, Bands: lowHigh()}}
	rules := []engine.Rule{mustThreshold(t, 0, "s",
		engine.Band{UpperBound: 30, Label: "moderate"},
		engine.Band{UpperBound: 40, Label: "strong"},
	)}
	got, _ := engine.EvaluateThresholds(scales, map[string]float64{"s": 25}, rules)
	if len(got) != 1 || got[0].Label != "moderate" {
		t.Errorf("got %+v, want label moderate", got)
	}
}

func TestEvaluateThresholds_LookupMiss(t *testing.T) {
	scales := []engine.Scale{{Key: "s", Min: 0, Max: 100, Bands: lowHigh()}}
	got, warnings := engine.EvaluateThresholds(scales, map[string]float64{"s": 90},
		[]engine.Rule{mustThreshold(t, 0, "s")})

	if len(got) != 1 || got[0].Label != engine.LabelUnknown {
		t.Errorf("got %+v, want label %q", got, engine.LabelUnknown)
	}
	if len(warnings) != 1 || warnings[0].Kind != engine.WarnBandLookupMiss {
		t.Errorf("expected one band_lookup_miss warning, got %v", warnings)
	}
}

func TestEvaluateThresholds_UndeclaredScale(t *testing.T) {
	scales := []engine.Scale{{Key: "s", Min: 0, Max: 40, Bands: lowHigh()}}
	got, warnings := engine.EvaluateThresholds(scales, map[string]float64{"s": 1},
		[]engine.Rule{mustThreshold(t, 0, "ghost"), mustThreshold(t, 1, "s")})

	if len(got) != 1 || got[0].ScaleKey != "s" {
		t.Errorf("got %+v, want only s", got)
	}
	if len(warnings) != 1 || warnings[0].Kind != engine.WarnRuleEvaluation || warnings[0].Subject != "ghost" {
		t.Errorf("expected one rule_evaluation warning on ghost, got %v", warnings)
	}
}

func TestEvaluateThresholds_LaterPriorityOverwritesSlot(t *testing.T) {
	scales := []engine.Scale{
		{Key: "a", Min: 0, Max: 40, Bands: lowHigh()},
		{Key: "b", Min: 0, Max: 40, Bands: lowHigh()},
	}
	rules := []engine.Rule{
		mustThreshold(t, 5, "a", engine.Band{UpperBound: 40, Label: "override"}),
		mustThreshold(t, 1, "a"),
		mustThreshold(t, 2, "b"),
	}
	got, _ := engine.EvaluateThresholds(scales, map[string]float64{"a": 10, "b": 30}, rules)
	if len(got) != 2 {
		t.Fatalf("got %d interpretations, want 2", len(got))
	}
	if got[0].ScaleKey != "a" || got[0].Label != "override" {
		t.Errorf("slot 0: got %+v, want a/override", got[0])
	}
	if got[1].ScaleKey != "b" || got[1].Label != "high" {
		t.Errorf("slot 1: got %+v, want b/high", got[1])
	}
}

// ─── EvaluateFormulas ─────────────────────────────────────────────────────────

func TestEvaluateFormulas_IsolatesFailures(t *testing.T) {
	scores := map[string]float64{"value_passion": 30, "value_security": 10, "zero": 0}
	rules := []engine.Rule{
		mustFormula(t, 0, "passion_minus_security", "value_passion - value_security"),
		mustFormula(t, 1, "broken_div", "value_passion / zero"),
		mustFormula(t, 2, "broken_ref", "value_passion + nope"),
		mustFormula(t, 3, "ratio", "value_passion / value_security"),
	}
	got, warnings := engine.EvaluateFormulas(scores, rules)

	if len(got) != 2 {
		t.Fatalf("got %d composites, want 2: %+v", len(got), got)
	}
	if got[0].Name != "passion_minus_security" || got[0].Value != 20 {
		t.Errorf("composite 0: got %+v", got[0])
	}
	if got[1].Name != "ratio" || got[1].Value != 3 {
		t.Errorf("composite 1: got %+v", got[1])
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	for i, subject := range []string{"broken_div", "broken_ref"} {
		if warnings[i].Subject != subject || warnings[i].Kind != engine.WarnRuleEvaluation {
			t.Errorf("warning %d: got %+v, want rule_evaluation on %s", i, warnings[i], subject)
		}
	}
}

func TestEvaluateFormulas_PriorityOrder(t *testing.T) {
	rules := []engine.Rule{
		mustFormula(t, 9, "last", "1"),
		mustFormula(t, 0, "first", "2"),
		mustFormula(t, 5, "middle", "3"),
	}
	got, _ := engine.EvaluateFormulas(nil, rules)
	want := []string{"first", "middle", "last"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i].Name, want[i])
		}
	}
}

// ─── EvaluateCombos ───────────────────────────────────────────────────────────

func TestEvaluateCombos(t *testing.T) {
	scales := []engine.Scale{
		{Key: "secure_attachment", Min: 0, Max: 40, Bands: lowHigh()},
		{Key: "value_growth", Min: 0, Max: 40, Bands: lowHigh()},
	}
	rule := mustCombo(t, 0, "secure_grower",
		engine.ComboCondition{ScaleKey: "secure_attachment", RequiredLabel: "high"},
		engine.ComboCondition{ScaleKey: "value_growth", RequiredLabel: "high"},
	)
	tests := []struct {
		name   string
		scores map[string]float64
		want   bool
	}{
		{"both high", map[string]float64{"secure_attachment": 30, "value_growth": 35}, true},
		{"first low", map[string]float64{"secure_attachment": 5, "value_growth": 35}, false},
		{"second low", map[string]float64{"secure_attachment": 30, "value_growth": 5}, false},
		{"both low", map[string]float64{"secure_attachment": 5, "value_growth": 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := engine.EvaluateCombos(scales, tt.scores, []engine.Rule{rule})
			if len(warnings) != 0 {
				t.Errorf("unexpected warnings: %v", warnings)
			}
			if (len(got) == 1) != tt.want {
				t.Fatalf("matched: got %v, want %v", len(got) == 1, tt.want)
			}
			if tt.want {
				p := got[0]
				if p.Name != "secure_grower" || !p.Matched || len(p.Details) != 2 {
					t.Errorf("pattern: got %+v", p)
				}
			}
		})
	}
}

func TestEvaluateCombos_UnknownLabelCanMatch(t *testing.T) {
	scales := []engine.Scale{{Key: "s", Min: 0, Max: 100, Bands: lowHigh()}}
	rule := mustCombo(t, 0, "off_the_chart",
		engine.ComboCondition{ScaleKey: "s", RequiredLabel: engine.LabelUnknown})
	got, _ := engine.EvaluateCombos(scales, map[string]float64{"s": 90}, []engine.Rule{rule})
	if len(got) != 1 {
		t.Errorf("expected pattern on lookup miss, got %+v", got)
	}
}

func TestEvaluateCombos_ReportsEveryUndeclaredScale(t *testing.T) {
	scales := []engine.Scale{{Key: "s", Min: 0, Max: 40, Bands: lowHigh()}}
	rule := mustCombo(t, 0, "ghosts",
		engine.ComboCondition{ScaleKey: "ghost1", RequiredLabel: "high"},
		engine.ComboCondition{ScaleKey: "s", RequiredLabel: "high"},
		engine.ComboCondition{ScaleKey: "ghost2", RequiredLabel: "high"},
	)
	got, warnings := engine.EvaluateCombos(scales, map[string]float64{"s": 30}, []engine.Rule{rule})
	if len(got) != 0 {
		t.Errorf("expected no pattern, got %+v", got)
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	for _, w := range warnings {
		if w.Kind != engine.WarnRuleEvaluation || w.Subject != "ghosts" {
			t.Errorf("unexpected warning %+v", w)
		}
	}
}
