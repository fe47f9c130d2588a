// Package quiz loads quiz definition documents and turns respondents' raw
// selections into engine inputs. A definition bundles the scales, rules and
// questions of one quiz together with the domain-key → scale-key table its
// option weights are written against.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
)

// Definition is a parsed, immutable quiz. Construct it with Parse.
//
// JSON shape:
//
//	{
//	  "id":         "attachment-v1",
//	  "title":      "Attachment style",
//	  "version":    3,
//	  "scales":     [{"key": "secure_attachment", "min": 0, "max": 40, "bands": [...]}],
//	  "rules":      [{"kind": "threshold", "priority": 0, "payload": {...}}],
//	  "questions":  [{"id": "q1", "prompt": "...", "options": [{"id": "a", "text": "...", "weights": {"secure": 10}}]}],
//	  "domain_map": {"secure": "secure_attachment"}
//	}
type Definition struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Version   int               `json:"version"`
	Scales    []engine.Scale    `json:"scales"`
	Rules     []engine.Rule     `json:"rules"`
	Questions []engine.Question `json:"questions"`
	DomainMap map[string]string `json:"domain_map,omitempty"`
}

// document is the wire form. Rules stay raw so ParseRules can report every
// defective rule instead of stopping at the first.
type document struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Version   int               `json:"version"`
	Scales    []engine.Scale    `json:"scales"`
	Rules     []json.RawMessage `json:"rules"`
	Questions []engine.Question `json:"questions"`
	DomainMap map[string]string `json:"domain_map"`
}

// Parse decodes a definition in the given format and validates it.
func Parse(data []byte, format Format) (*Definition, error) {
	raw, err := normalise(data, format)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("quiz: decode definition: %w", err)
	}

	rules, err := engine.ParseRules(doc.Rules)
	if err != nil {
		return nil, fmt.Errorf("quiz %q: %w", doc.ID, err)
	}

	d := &Definition{
		ID:        doc.ID,
		Title:     doc.Title,
		Version:   doc.Version,
		Scales:    doc.Scales,
		Rules:     rules,
		Questions: doc.Questions,
		DomainMap: doc.DomainMap,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate reports every structural defect of the definition at once.
// Rules are already valid individually; Validate checks that they only
// reference declared scales.
func (d *Definition) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(d.ID) == "" {
		fail("id must not be empty")
	}

	if len(d.Scales) == 0 {
		fail("scales: at least one scale is required")
	}
	declared := make(map[string]bool, len(d.Scales))
	for i, s := range d.Scales {
		switch {
		case strings.TrimSpace(s.Key) == "":
			fail("scales[%d]: key must not be empty", i)
		case declared[s.Key]:
			fail("scales[%d]: duplicate key %q", i, s.Key)
		}
		if s.Min > s.Max {
			fail("scales[%d]: min %g is greater than max %g", i, s.Min, s.Max)
		}
		for j, b := range s.Bands {
			if strings.TrimSpace(b.Label) == "" {
				fail("scales[%d].bands[%d]: label must not be empty", i, j)
			}
		}
		declared[s.Key] = true
	}

	for i, r := range d.Rules {
		for _, key := range referencedScales(r) {
			if !declared[key] {
				fail("rules[%d] (%s %q): references undeclared scale %q", i, r.Kind(), r.Label(), key)
			}
		}
	}

	if len(d.Questions) == 0 {
		fail("questions: at least one question is required")
	}
	questionIDs := make(map[string]bool, len(d.Questions))
	for i, q := range d.Questions {
		switch {
		case strings.TrimSpace(q.ID) == "":
			fail("questions[%d]: id must not be empty", i)
		case questionIDs[q.ID]:
			fail("questions[%d]: duplicate id %q", i, q.ID)
		}
		questionIDs[q.ID] = true

		if len(q.Options) == 0 {
			fail("questions[%d] (%s): at least one option is required", i, q.ID)
		}
		optionIDs := make(map[string]bool, len(q.Options))
		for j, o := range q.Options {
			switch {
			case strings.TrimSpace(o.ID) == "":
				fail("questions[%d].options[%d]: id must not be empty", i, j)
			case optionIDs[o.ID]:
				fail("questions[%d].options[%d]: duplicate id %q", i, j, o.ID)
			}
			optionIDs[o.ID] = true
		}
	}

	for domainKey, scaleKey := range d.DomainMap {
		if !declared[scaleKey] {
			fail("domain_map[%q]: maps to undeclared scale %q", domainKey, scaleKey)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("quiz %q: %w", d.ID, errors.Join(errs...))
}

func referencedScales(r engine.Rule) []string {
	switch r.Kind() {
	case engine.KindThreshold:
		return []string{r.Threshold().ScaleKey}
	case engine.KindFormula:
		return r.Formula().Expression.Identifiers()
	case engine.KindCombo:
		conds := r.Combo().Conditions
		keys := make([]string, 0, len(conds))
		for _, c := range conds {
			keys = append(keys, c.ScaleKey)
		}
		return keys
	}
	return nil
}

// Question returns the question with the given id.
func (d *Definition) Question(id string) (engine.Question, bool) {
	for _, q := range d.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return engine.Question{}, false
}

// HasOption reports whether questionID exists and offers optionID.
func (d *Definition) HasOption(questionID, optionID string) bool {
	q, ok := d.Question(questionID)
	if !ok {
		return false
	}
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// Mapper returns the answer mapper for this definition's domain map. An empty
// domain map yields an identity mapper.
func (d *Definition) Mapper() *engine.Mapper {
	return engine.NewMapper(d.DomainMap)
}

// CanonicalAnswers maps raw selections to canonical answers.
func (d *Definition) CanonicalAnswers(raws []engine.RawAnswer) ([]engine.Answer, []engine.Warning) {
	return d.Mapper().MapAll(raws, d.Questions)
}

// Input builds the engine input for already-canonical answers. warnings are
// carried through so they lead the summary's warning list.
func (d *Definition) Input(answers []engine.Answer, warnings []engine.Warning) engine.Input {
	return engine.Input{
		Version:  d.Version,
		Scales:   d.Scales,
		Rules:    d.Rules,
		Answers:  answers,
		Warnings: warnings,
	}
}

// Evaluate maps raws and runs them through e. The only error is the one
// Evaluate itself returns (a *engine.ValidationError, or ctx's error).
func (d *Definition) Evaluate(ctx context.Context, e *engine.Engine, raws []engine.RawAnswer) (engine.ResultSummary, error) {
	answers, warnings := d.CanonicalAnswers(raws)
	return e.EvaluateContext(ctx, d.Input(answers, warnings))
}
