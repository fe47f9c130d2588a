package engine

import "fmt"

// EvaluateCombos emits a Pattern for every combo rule whose conditions all
// hold. Each condition compares the scale's band label, found with the same
// lookup threshold rules use over the scale's declared bands, against the
// required label.
//
// A condition on an undeclared scale makes its rule fail to match and is
// reported as a WarnRuleEvaluation warning. Every condition is checked so that
// each undeclared reference is reported, not only the first.
func EvaluateCombos(scales []Scale, scores map[string]float64, rules []Rule) ([]Pattern, []Warning) {
	byKey := make(map[string]Scale, len(scales))
	for _, s := range scales {
		byKey[s.Key] = s
	}

	var (
		out      []Pattern
		warnings []Warning
	)

	for _, rule := range rulesOfKind(rules, KindCombo) {
		cr := rule.Combo()

		matched := true
		details := make([]PatternCondition, 0, len(cr.Conditions))

		for _, cond := range cr.Conditions {
			scale, ok := byKey[cond.ScaleKey]
			if !ok {
				warnings = append(warnings, Warning{
					Kind:    WarnRuleEvaluation,
					Stage:   StageComboRules,
					Subject: cr.Name,
					Message: fmt.Sprintf("condition references undeclared scale %q", cond.ScaleKey),
				})
				matched = false
				continue
			}

			band, _ := LookupBand(scale.Bands, scores[scale.Key])
			if band.Label != cond.RequiredLabel {
				matched = false
				continue
			}
			details = append(details, PatternCondition{ScaleKey: scale.Key, Label: band.Label})
		}

		if matched {
			out = append(out, Pattern{Name: cr.Name, Matched: true, Details: details})
		}
	}

	return out, warnings
}
