package engine

import (
	"fmt"
	"sort"
)

// rulesOfKind returns the rules of one kind in ascending priority order. Equal
// priorities keep their input order.
func rulesOfKind(rules []Rule, kind RuleKind) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].priority < out[j].priority
	})
	return out
}

// EvaluateThresholds maps scale scores to band interpretations, one slot per
// scale key. A later rule for the same scale overwrites the earlier one's
// slot; the slot keeps the position of its first writer.
//
// A score no band covers still produces an Interpretation, labelled
// LabelUnknown and without text, plus a WarnBandLookupMiss warning.
func EvaluateThresholds(scales []Scale, scores map[string]float64, rules []Rule) ([]Interpretation, []Warning) {
	byKey := make(map[string]Scale, len(scales))
	for _, s := range scales {
		byKey[s.Key] = s
	}

	var (
		out      []Interpretation
		warnings []Warning
		slot     = make(map[string]int)
	)

	for _, rule := range rulesOfKind(rules, KindThreshold) {
		tr := rule.Threshold()

		scale, ok := byKey[tr.ScaleKey]
		if !ok {
			warnings = append(warnings, Warning{
				Kind:    WarnRuleEvaluation,
				Stage:   StageThresholdRules,
				Subject: tr.ScaleKey,
				Message: "threshold rule references an undeclared scale",
			})
			continue
		}

		bands := scale.Bands
		if len(tr.Bands) > 0 {
			bands = tr.Bands
		}

		score := scores[scale.Key]
		band, found := LookupBand(bands, score)

		in := Interpretation{ScaleKey: scale.Key, Label: LabelUnknown}
		if found {
			in = Interpretation{
				ScaleKey:        scale.Key,
				Label:           band.Label,
				Title:           band.Title,
				Description:     band.Description,
				Recommendations: append([]string(nil), band.Recommendations...),
			}
		} else {
			warnings = append(warnings, Warning{
				Kind:    WarnBandLookupMiss,
				Stage:   StageThresholdRules,
				Subject: scale.Key,
				Message: fmt.Sprintf("score %g is above every band upper bound", score),
			})
		}

		if i, seen := slot[scale.Key]; seen {
			out[i] = in
			continue
		}
		slot[scale.Key] = len(out)
		out = append(out, in)
	}

	return out, warnings
}
