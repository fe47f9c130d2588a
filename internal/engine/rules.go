package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// RuleKind is the discriminator field inside every rule document.
type RuleKind string

const (
	KindThreshold RuleKind = "threshold"
	KindFormula   RuleKind = "formula"
	KindCombo     RuleKind = "combo"
)

// ThresholdRule maps one scale's score to a band. An empty Bands slice means
// "use the scale's own bands"; NewThresholdRule stores it as nil.
//
// JSON payload:
//
//	{ "scale_key": "secure_attachment", "bands": [ ... ] }
type ThresholdRule struct {
	ScaleKey string `json:"scale_key"`
	Bands    []Band `json:"bands,omitempty"`
}

// Validate checks the payload shape. It does not know which scales exist.
func (r ThresholdRule) Validate() error {
	if strings.TrimSpace(r.ScaleKey) == "" {
		return errors.New("threshold rule: scale_key must not be empty")
	}
	return validateBands(r.Bands)
}

// FormulaRule computes a composite score from an arithmetic expression.
//
// JSON payload:
//
//	{ "name": "passion_minus_security", "expression": "value_passion - value_security" }
type FormulaRule struct {
	Name       string
	Expression Expression
}

// Validate checks the payload shape.
func (r FormulaRule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("formula rule: name must not be empty")
	}
	if r.Expression.root == nil {
		return errors.New("formula rule: expression must be compiled")
	}
	return nil
}

// ComboCondition requires one scale to sit in a specific band.
type ComboCondition struct {
	ScaleKey      string `json:"scale_key"`
	RequiredLabel string `json:"required_label"`
}

// ComboRule is a conjunction of band conditions across scales.
//
// JSON payload:
//
//	{ "name": "secure_grower", "conditions": [ {"scale_key": "...", "required_label": "high"} ] }
type ComboRule struct {
	Name       string           `json:"name"`
	Conditions []ComboCondition `json:"conditions"`
}

// Validate checks the payload shape.
func (r ComboRule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("combo rule: name must not be empty")
	}
	if len(r.Conditions) == 0 {
		return fmt.Errorf("combo rule %q: conditions must not be empty", r.Name)
	}
	for i, c := range r.Conditions {
		if strings.TrimSpace(c.ScaleKey) == "" {
			return fmt.Errorf("combo rule %q: conditions[%d].scale_key must not be empty", r.Name, i)
		}
		if strings.TrimSpace(c.RequiredLabel) == "" {
			return fmt.Errorf("combo rule %q: conditions[%d].required_label must not be empty", r.Name, i)
		}
	}
	return nil
}

func validateBands(bands []Band) error {
	for i, b := range bands {
		if strings.TrimSpace(b.Label) == "" {
			return fmt.Errorf("bands[%d]: label must not be empty", i)
		}
		if math.IsNaN(b.UpperBound) {
			return fmt.Errorf("bands[%d]: upper_bound must be a number", i)
		}
	}
	return nil
}

// ─── TAGGED UNION ─────────────────────────────────────────────────────────────

// Rule is a closed union of ThresholdRule, FormulaRule and ComboRule. Build it
// with one of the constructors or ParseRule; a Rule obtained that way has
// already been validated, so evaluators never re-check its shape.
type Rule struct {
	priority  int
	threshold *ThresholdRule
	formula   *FormulaRule
	combo     *ComboRule
}

// NewThresholdRule validates and wraps a threshold payload.
func NewThresholdRule(priority int, r ThresholdRule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	r.Bands = cloneBands(r.Bands)
	return Rule{priority: priority, threshold: &r}, nil
}

// NewFormulaRule compiles expression and wraps it in a Rule.
func NewFormulaRule(priority int, name, expression string) (Rule, error) {
	expr, err := CompileExpression(expression)
	if err != nil {
		return Rule{}, fmt.Errorf("formula rule %q: %w", name, err)
	}
	r := FormulaRule{Name: name, Expression: expr}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return Rule{priority: priority, formula: &r}, nil
}

// NewComboRule validates and wraps a combo payload.
func NewComboRule(priority int, r ComboRule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	r.Conditions = append([]ComboCondition(nil), r.Conditions...)
	return Rule{priority: priority, combo: &r}, nil
}

// Kind returns the variant tag. The zero Rule has an empty kind.
func (r Rule) Kind() RuleKind {
	switch {
	case r.threshold != nil:
		return KindThreshold
	case r.formula != nil:
		return KindFormula
	case r.combo != nil:
		return KindCombo
	default:
		return ""
	}
}

// Priority orders rules of the same kind, ascending.
func (r Rule) Priority() int { return r.priority }

// Threshold returns the threshold payload. Panics if Kind() != KindThreshold.
func (r Rule) Threshold() ThresholdRule { return *r.threshold }

// Formula returns the formula payload. Panics if Kind() != KindFormula.
func (r Rule) Formula() FormulaRule { return *r.formula }

// Combo returns the combo payload. Panics if Kind() != KindCombo.
func (r Rule) Combo() ComboRule { return *r.combo }

// Label is a human-readable subject for warnings and audit data.
func (r Rule) Label() string {
	switch r.Kind() {
	case KindThreshold:
		return r.threshold.ScaleKey
	case KindFormula:
		return r.formula.Name
	case KindCombo:
		return r.combo.Name
	default:
		return ""
	}
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

// ruleDocument is the wire shape of a rule:
//
//	{ "kind": "formula", "priority": 10, "payload": { ... } }
type ruleDocument struct {
	Kind     RuleKind        `json:"kind"`
	Priority int             `json:"priority"`
	Payload  json.RawMessage `json:"payload"`
}

type formulaPayload struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// ParseRule unmarshals a raw rule document into a validated Rule. Returns an
// error if the JSON is malformed, the kind is unrecognised, or the payload
// fails its Validate check.
func ParseRule(raw json.RawMessage) (Rule, error) {
	if len(raw) == 0 {
		return Rule{}, errors.New("rule: empty JSON")
	}

	var doc ruleDocument
	if err := strictUnmarshal(raw, &doc); err != nil {
		return Rule{}, fmt.Errorf("rule: cannot read document: %w", err)
	}
	if len(doc.Payload) == 0 {
		return Rule{}, fmt.Errorf("rule: %q rule has no payload", doc.Kind)
	}

	switch doc.Kind {
	case KindThreshold:
		var p ThresholdRule
		if err := strictUnmarshal(doc.Payload, &p); err != nil {
			return Rule{}, fmt.Errorf("rule: cannot unmarshal threshold payload: %w", err)
		}
		return NewThresholdRule(doc.Priority, p)

	case KindFormula:
		var p formulaPayload
		if err := strictUnmarshal(doc.Payload, &p); err != nil {
			return Rule{}, fmt.Errorf("rule: cannot unmarshal formula payload: %w", err)
		}
		return NewFormulaRule(doc.Priority, p.Name, p.Expression)

	case KindCombo:
		var p ComboRule
		if err := strictUnmarshal(doc.Payload, &p); err != nil {
			return Rule{}, fmt.Errorf("rule: cannot unmarshal combo payload: %w", err)
		}
		return NewComboRule(doc.Priority, p)

	default:
		return Rule{}, fmt.Errorf("rule: unknown kind %q", doc.Kind)
	}
}

// ParseRules parses every element of a JSON array of rule documents. All
// defects are reported together.
func ParseRules(raw []json.RawMessage) ([]Rule, error) {
	rules := make([]Rule, 0, len(raw))
	var errs []error
	for i, r := range raw {
		rule, err := ParseRule(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		rules = append(rules, rule)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return rules, nil
}

// UnmarshalJSON lets Rule appear directly inside larger documents.
func (r *Rule) UnmarshalJSON(data []byte) error {
	parsed, err := ParseRule(data)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalJSON writes the same document shape ParseRule reads.
func (r Rule) MarshalJSON() ([]byte, error) {
	var payload any
	switch r.Kind() {
	case KindThreshold:
		payload = r.threshold
	case KindFormula:
		payload = formulaPayload{Name: r.formula.Name, Expression: r.formula.Expression.String()}
	case KindCombo:
		payload = r.combo
	default:
		return nil, errors.New("rule: cannot marshal zero Rule")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ruleDocument{Kind: r.Kind(), Priority: r.priority, Payload: body})
}

func strictUnmarshal(data []byte, dst any) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func cloneBands(bands []Band) []Band {
	if len(bands) == 0 {
		return nil
	}
	out := make([]Band, len(bands))
	for i, b := range bands {
		b.Recommendations = append([]string(nil), b.Recommendations...)
		out[i] = b
	}
	return out
}
