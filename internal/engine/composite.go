package engine

import "fmt"

// EvaluateFormulas computes one CompositeScore per formula rule. A rule that
// divides by zero, references an undeclared scale, or produces a non-finite
// value is omitted and reported as a WarnRuleEvaluation warning; the other
// rules are unaffected.
func EvaluateFormulas(scores map[string]float64, rules []Rule) ([]CompositeScore, []Warning) {
	var (
		out      []CompositeScore
		warnings []Warning
	)

	for _, rule := range rulesOfKind(rules, KindFormula) {
		fr := rule.Formula()

		v, err := fr.Expression.Eval(scores)
		if err != nil {
			warnings = append(warnings, Warning{
				Kind:    WarnRuleEvaluation,
				Stage:   StageFormulaRules,
				Subject: fr.Name,
				Message: fmt.Sprintf("formula %q: %v", fr.Expression.String(), err),
			})
			continue
		}

		out = append(out, CompositeScore{Name: fr.Name, Value: v})
	}

	return out, warnings
}
