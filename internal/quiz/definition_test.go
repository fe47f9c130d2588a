package quiz_test

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
)

func loadFixture(t *testing.T) *quiz.Definition {
	t.Helper()
	data, err := os.ReadFile("testdata/attachment.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	def, err := quiz.Parse(data, quiz.FormatYAML)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return def
}

// ─── Parse ────────────────────────────────────────────────────────────────────

func TestParse_YAML(t *testing.T) {
	def := loadFixture(t)
	if def.ID != "attachment-v1" || def.Version != 3 {
		t.Errorf("header: got id=%q version=%d", def.ID, def.Version)
	}
	if len(def.Scales) != 4 || len(def.Rules) != 4 || len(def.Questions) != 3 {
		t.Errorf("counts: scales=%d rules=%d questions=%d", len(def.Scales), len(def.Rules), len(def.Questions))
	}
	if def.Rules[2].Kind() != engine.KindFormula {
		t.Errorf("rules[2]: got kind %q, want formula", def.Rules[2].Kind())
	}
}

func TestParse_JSONMatchesYAML(t *testing.T) {
	fromYAML := loadFixture(t)
	data, err := json.Marshal(fromYAML)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	fromJSON, err := quiz.Parse(data, quiz.FormatJSON)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	again, _ := json.Marshal(fromJSON)
	if string(again) != string(data) {
		t.Errorf("JSON round trip differs:\n%s\n%s", data, again)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantSub []string
	}{
		{
			name:    "malformed",
			doc:     `{`,
			wantSub: []string{"decode definition"},
		},
		{
			name: "bad rules reported together",
			doc: `{"id":"x","scales":[{"key":"s","min":0,"max":1}],
				"rules":[{"kind":"nope","payload":{}},{"kind":"formula","payload":{"name":"f","expression":"1 +"}}],
				"questions":[{"id":"q","options":[{"id":"a"}]}]}`,
			wantSub: []string{"rules[0]", "rules[1]"},
		},
		{
			name: "structural defects reported together",
			doc: `{"id":"x",
				"scales":[{"key":"s","min":5,"max":1},{"key":"s","min":0,"max":1}],
				"rules":[{"kind":"threshold","payload":{"scale_key":"ghost"}},
				         {"kind":"formula","payload":{"name":"f","expression":"s + phantom"}}],
				"questions":[{"id":"q","options":[]},{"id":"q","options":[{"id":"a"},{"id":"a"}]}],
				"domain_map":{"d":"nowhere"}}`,
			wantSub: []string{
				"scales[0]: min 5",
				`scales[1]: duplicate key "s"`,
				`undeclared scale "ghost"`,
				`undeclared scale "phantom"`,
				"questions[0] (q): at least one option",
				`questions[1]: duplicate id "q"`,
				`questions[1].options[1]: duplicate id "a"`,
				`domain_map["d"]`,
			},
		},
		{
			name:    "missing id",
			doc:     `{"scales":[{"key":"s","min":0,"max":1}],"questions":[{"id":"q","options":[{"id":"a"}]}]}`,
			wantSub: []string{"id must not be empty"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quiz.Parse([]byte(tt.doc), quiz.FormatJSON)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, sub := range tt.wantSub {
				if !strings.Contains(err.Error(), sub) {
					t.Errorf("error should contain %q:\n%v", sub, err)
				}
			}
		})
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	if _, err := quiz.Parse([]byte(`{}`), quiz.Format("toml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]quiz.Format{
		"quiz.yaml":      quiz.FormatYAML,
		"quiz.YML":       quiz.FormatYAML,
		"quiz.json":      quiz.FormatJSON,
		"no-extension":   quiz.FormatJSON,
		"dir.yaml/x.txt": quiz.FormatJSON,
	}
	for path, want := range tests {
		if got := quiz.FormatFromPath(path); got != want {
			t.Errorf("%s: got %q, want %q", path, got, want)
		}
	}
}

// ─── Answers ──────────────────────────────────────────────────────────────────

func TestDefinition_Evaluate(t *testing.T) {
	def := loadFixture(t)
	data, err := os.ReadFile("testdata/answers.json")
	if err != nil {
		t.Fatalf("read answers: %v", err)
	}
	raws, err := quiz.DecodeAnswers(data, quiz.FormatJSON)
	if err != nil {
		t.Fatalf("decode answers: %v", err)
	}

	summary, err := def.Evaluate(context.Background(), engine.New(), raws)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if s, _ := summary.Score("secure_attachment"); s.Score != 25 {
		t.Errorf("secure_attachment: got %v, want 25", s.Score)
	}
	if c, _ := summary.Composite("passion_minus_security"); c.Value != 20 {
		t.Errorf("composite: got %v, want 20", c.Value)
	}
	if !summary.HasPattern("secure_grower") {
		t.Error("expected secure_grower pattern")
	}
	if !summary.Clean() {
		t.Errorf("unexpected warnings: %v", summary.Warnings)
	}
	if summary.Version != 3 {
		t.Errorf("version: got %d, want 3", summary.Version)
	}
}

func TestDefinition_EvaluateNoUsableAnswers(t *testing.T) {
	def := loadFixture(t)
	raws := []engine.RawAnswer{{QuestionID: "q3", OptionID: "b"}} // option without weights
	_, err := def.Evaluate(context.Background(), engine.New(), raws)
	if !engine.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDefinition_CanonicalAnswersWarnsOnUnknownQuestion(t *testing.T) {
	def := loadFixture(t)
	answers, warnings := def.CanonicalAnswers([]engine.RawAnswer{
		{QuestionID: "q1", OptionID: "a"},
		{QuestionID: "q99", OptionID: "a"},
	})
	if len(answers) != 1 {
		t.Errorf("answers: got %d, want 1", len(answers))
	}
	if len(warnings) != 1 || warnings[0].Kind != engine.WarnMapping {
		t.Errorf("warnings: got %v", warnings)
	}
	if answers[0].Weights["secure_attachment"] != 15 {
		t.Errorf("weights: got %v", answers[0].Weights)
	}
}

func TestDefinition_HasOption(t *testing.T) {
	def := loadFixture(t)
	if !def.HasOption("q1", "b") {
		t.Error("q1/b should exist")
	}
	if def.HasOption("q1", "z") || def.HasOption("q9", "a") {
		t.Error("unknown question or option reported as present")
	}
}

func TestDefinition_PublicHidesWeights(t *testing.T) {
	view := loadFixture(t).Public()
	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, leak := range []string{"weights", "scales", "rules", "domain_map", "secure_attachment"} {
		if strings.Contains(string(data), leak) {
			t.Errorf("public view leaks %q: %s", leak, data)
		}
	}
	if len(view.Questions) != 3 || len(view.Questions[0].Options) != 2 {
		t.Errorf("public view shape: %+v", view)
	}
}
