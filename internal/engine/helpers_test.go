package engine_test

import (
	"testing"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
)

func mustThreshold(t *testing.T, priority int, scaleKey string, bands ...engine.Band) engine.Rule {
	t.Helper()
	r, err := engine.NewThresholdRule(priority, engine.ThresholdRule{ScaleKey: scaleKey, Bands: bands})
	if err != nil {
		t.Fatalf("NewThresholdRule: %v", err)
	}
	return r
}

func mustFormula(t *testing.T, priority int, name, expression string) engine.Rule {
	t.Helper()
	r, err := engine.NewFormulaRule(priority, name, expression)
	if err != nil {
		t.Fatalf("NewFormulaRule: %v", err)
	}
	return r
}

func mustCombo(t *testing.T, priority int, name string, conds ...engine.ComboCondition) engine.Rule {
	t.Helper()
	r, err := engine.NewComboRule(priority, engine.ComboRule{Name: name, Conditions: conds})
	if err != nil {
		t.Fatalf("NewComboRule: %v", err)
	}
	return r
}

func lowHigh() []engine.Band {
	return []engine.Band{
		{UpperBound: 20, Label: "low", Title: "Low"},
		{UpperBound: 40, Label: "high", Title: "High", Recommendations: []string{"keep going"}},
	}
}
