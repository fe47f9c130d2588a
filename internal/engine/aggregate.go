package engine

import (
	"fmt"
	"sort"
)

// LabelUnknown is the label given to a score that no band covers.
const LabelUnknown = "unknown"

// LookupBand returns the first band, in ascending UpperBound order, whose
// UpperBound is >= score. The input order of bands does not matter and the
// slice is not modified. ok is false when no band qualifies.
func LookupBand(bands []Band, score float64) (band Band, ok bool) {
	sorted := sortedBands(bands)
	for _, b := range sorted {
		if b.UpperBound >= score {
			return b, true
		}
	}
	return Band{Label: LabelUnknown}, false
}

// sortedBands copies bands and sorts the copy. Ties on UpperBound keep their
// input order, then fall back to label so equal inputs in any order select
// the same band.
func sortedBands(bands []Band) []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpperBound != out[j].UpperBound {
			return out[i].UpperBound < out[j].UpperBound
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// clamp constrains v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// percentage is the linear position of score within [lo, hi], from 0 to 100. A
// degenerate range (lo == hi) yields 0.
func percentage(score, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return clamp((score-lo)/(hi-lo)*100, 0, 100)
}

// Aggregate sums answer weights per declared scale and clamps each total into
// the scale's range. Every declared scale appears in the result (zero when no
// answer touched it). Weights keyed by undeclared scales are ignored: they
// belong to a different test instance. A clamp that changes a value yields a
// WarnClamp warning.
func Aggregate(scales []Scale, answers []Answer) (map[string]float64, []Warning) {
	raw := make(map[string]float64, len(scales))
	for _, s := range scales {
		raw[s.Key] = 0
	}

	for _, a := range answers {
		for key, w := range a.Weights {
			if _, declared := raw[key]; !declared {
				continue
			}
			raw[key] += w
		}
	}

	var warnings []Warning
	scores := make(map[string]float64, len(scales))
	for _, s := range scales {
		v := raw[s.Key]
		c := clamp(v, s.Min, s.Max)
		if c != v {
			warnings = append(warnings, Warning{
				Kind:    WarnClamp,
				Stage:   StageScaleAggregation,
				Subject: s.Key,
				Message: fmt.Sprintf("score %g clamped to %g (range [%g, %g])", v, c, s.Min, s.Max),
			})
		}
		scores[s.Key] = c
	}
	return scores, warnings
}

// scaleScores renders the aggregated map as a slice in declaration order.
func scaleScores(scales []Scale, scores map[string]float64) []ScaleScore {
	out := make([]ScaleScore, 0, len(scales))
	for _, s := range scales {
		v := scores[s.Key]
		out = append(out, ScaleScore{
			ScaleKey:   s.Key,
			Score:      v,
			Percentage: percentage(v, s.Min, s.Max),
		})
	}
	return out
}
