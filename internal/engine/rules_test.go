package engine_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
)

// ─── ParseRule ────────────────────────────────────────────────────────────────

func TestParseRule_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind engine.RuleKind
		wantPrio int
		wantName string
	}{
		{
			name:     "threshold",
			raw:      `{"kind":"threshold","priority":3,"payload":{"scale_key":"secure_attachment"}}`,
			wantKind: engine.KindThreshold,
			wantPrio: 3,
			wantName: "secure_attachment",
		},
		{
			name: "threshold with band override",
			raw: `{"kind":"threshold","priority":1,"payload":{"scale_key":"s",
				"bands":[{"upper_bound":10,"label":"low","recommendations":["rest"]}]}}`,
			wantKind: engine.KindThreshold,
			wantPrio: 1,
			wantName: "s",
		},
		{
			name:     "formula",
			raw:      `{"kind":"formula","priority":2,"payload":{"name":"diff","expression":"a - b"}}`,
			wantKind: engine.KindFormula,
			wantPrio: 2,
			wantName: "diff",
		},
		{
			name: "combo",
			raw: `{"kind":"combo","priority":0,"payload":{"name":"secure_grower",
				"conditions":[{"scale_key":"a","required_label":"high"}]}}`,
			wantKind: engine.KindCombo,
			wantPrio: 0,
			wantName: "secure_grower",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := engine.ParseRule(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Kind() != tt.wantKind {
				t.Errorf("kind: got %q, want %q", r.Kind(), tt.wantKind)
			}
			if r.Priority() != tt.wantPrio {
				t.Errorf("priority: got %d, want %d", r.Priority(), tt.wantPrio)
			}
			if r.Label() != tt.wantName {
				t.Errorf("label: got %q, want %q", r.Label(), tt.wantName)
			}
		})
	}
}

func TestParseRule_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"malformed JSON", `{bad}`},
		{"unknown kind", `{"kind":"regex","payload":{}}`},
		{"missing kind", `{"priority":1,"payload":{"scale_key":"a"}}`},
		{"missing payload", `{"kind":"threshold","priority":1}`},
		{"threshold empty scale_key", `{"kind":"threshold","payload":{"scale_key":""}}`},
		{"threshold band without label", `{"kind":"threshold","payload":{"scale_key":"a","bands":[{"upper_bound":1}]}}`},
		{"threshold unknown field", `{"kind":"threshold","payload":{"scale_key":"a","scale":"b"}}`},
		{"document unknown field", `{"kind":"threshold","priorty":7,"payload":{"scale_key":"a"}}`},
		{"formula empty name", `{"kind":"formula","payload":{"name":"","expression":"a"}}`},
		{"formula empty expression", `{"kind":"formula","payload":{"name":"x","expression":""}}`},
		{"formula code injection", `{"kind":"formula","payload":{"name":"x","expression":"os.Exit(1)"}}`},
		{"formula syntax error", `{"kind":"formula","payload":{"name":"x","expression":"a +* b"}}`},
		{"combo empty name", `{"kind":"combo","payload":{"name":"","conditions":[{"scale_key":"a","required_label":"high"}]}}`},
		{"combo no conditions", `{"kind":"combo","payload":{"name":"x","conditions":[]}}`},
		{"combo condition without label", `{"kind":"combo","payload":{"name":"x","conditions":[{"scale_key":"a"}]}}`},
		{"combo condition without scale", `{"kind":"combo","payload":{"name":"x","conditions":[{"required_label":"high"}]}}`},
		{"payload wrong type", `{"kind":"combo","payload":"nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.ParseRule(json.RawMessage(tt.raw)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseRules_ReportsEveryDefect(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`{"kind":"formula","payload":{"name":"ok","expression":"a"}}`),
		json.RawMessage(`{"kind":"nope","payload":{}}`),
		json.RawMessage(`{"kind":"combo","payload":{"name":"x","conditions":[]}}`),
	}
	_, err := engine.ParseRules(raws)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	msg := err.Error()
	for _, want := range []string{"rules[1]", "rules[2]"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should mention %s", msg, want)
		}
	}
}

// ─── JSON round trip ──────────────────────────────────────────────────────────

func TestRule_JSONRoundTrip(t *testing.T) {
	in := []string{
		`{"kind":"threshold","priority":1,"payload":{"scale_key":"s","bands":[{"upper_bound":5,"label":"low"}]}}`,
		`{"kind":"formula","priority":2,"payload":{"name":"n","expression":"a * (b + 1)"}}`,
		`{"kind":"combo","priority":3,"payload":{"name":"c","conditions":[{"scale_key":"a","required_label":"high"}]}}`,
	}
	for _, raw := range in {
		var r engine.Rule
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		out, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		again, err := engine.ParseRule(out)
		if err != nil {
			t.Fatalf("re-parse %s: %v", out, err)
		}
		if again.Kind() != r.Kind() || again.Priority() != r.Priority() || again.Label() != r.Label() {
			t.Errorf("round trip changed rule: %s → %s", raw, out)
		}
	}
}

func TestRule_EmptyBandOverrideSurvivesRoundTrip(t *testing.T) {
	scales := []engine.Scale{{Key: "s", Min: 0, Max: 40, Bands: lowHigh()}}
	scores := map[string]float64{"s": 25}

	r, err := engine.ParseRule(json.RawMessage(`{"kind":"threshold","priority":1,"payload":{"scale_key":"s","bands":[]}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Threshold().Bands != nil {
		t.Errorf("empty override should be stored as nil, got %v", r.Threshold().Bands)
	}
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := engine.ParseRule(out)
	if err != nil {
		t.Fatalf("re-parse %s: %v", out, err)
	}

	before, _ := engine.EvaluateThresholds(scales, scores, []engine.Rule{r})
	after, _ := engine.EvaluateThresholds(scales, scores, []engine.Rule{again})
	if len(before) != 1 || len(after) != 1 {
		t.Fatalf("got %d and %d interpretations, want 1 each", len(before), len(after))
	}
	if before[0].Label != "high" || after[0].Label != before[0].Label {
		t.Errorf("labels before/after round trip: %q / %q, want high", before[0].Label, after[0].Label)
	}
}

func TestRule_ZeroValueCannotMarshal(t *testing.T) {
	if _, err := json.Marshal(engine.Rule{}); err == nil {
		t.Error("expected error marshalling zero Rule")
	}
}

func TestNewThresholdRule_CopiesBands(t *testing.T) {
	bands := []engine.Band{{UpperBound: 10, Label: "low", Recommendations: []string{"a"}}}
	r, err := engine.NewThresholdRule(0, engine.ThresholdRule{ScaleKey: "s", Bands: bands})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bands[0].Label = "mutated"
	bands[0].Recommendations[0] = "mutated"
	got := r.Threshold().Bands[0]
	if got.Label != "low" || got.Recommendations[0] != "a" {
		t.Errorf("rule shares band storage with caller: %+v", got)
	}
}
