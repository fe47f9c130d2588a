// Package engine turns a set of canonical questionnaire answers into a
// structured scoring profile using author-defined scales and rules.
//
// It performs no I/O and holds no state between calls: every Evaluate call
// is self-contained and safe to run concurrently with any number of others.
package engine

import (
	"time"
)

// ─── DEFINITIONS ──────────────────────────────────────────────────────────────

// Band is a labelled sub-range of a scale. A score falls into the first band
// (sorted by UpperBound ascending) whose UpperBound is >= the score.
//
// JSON shape:
//
//	{
//	  "upper_bound":     20,
//	  "label":           "low",
//	  "title":           "Low security",
//	  "description":     "...",
//	  "recommendations": ["...", "..."]
//	}
type Band struct {
	UpperBound      float64  `json:"upper_bound"`
	Label           string   `json:"label"`
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Scale is a named, bounded numeric axis. Bands need not be sorted.
type Scale struct {
	Key   string  `json:"key"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Bands []Band  `json:"bands,omitempty"`
}

// Answer is one answered question with its weights already keyed by scale.
// The engine never mutates it.
type Answer struct {
	QuestionID string             `json:"question_id"`
	Weights    map[string]float64 `json:"weights"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Input is everything a single Evaluate call reads.
type Input struct {
	// Version is echoed verbatim into the ResultSummary. It tracks the
	// caller's authored content, not the engine.
	Version int
	Scales  []Scale
	Rules   []Rule
	Answers []Answer

	// Warnings raised while preparing the input (typically by a Mapper). They
	// lead the summary's warning list.
	Warnings []Warning
}

// ─── OUTPUTS ──────────────────────────────────────────────────────────────────

// ScaleScore is the aggregated, clamped score of one scale.
type ScaleScore struct {
	ScaleKey   string  `json:"scale_key"`
	Score      float64 `json:"score"`
	Percentage float64 `json:"percentage"`
}

// Interpretation is produced by a threshold rule.
type Interpretation struct {
	ScaleKey        string   `json:"scale_key"`
	Label           string   `json:"label"`
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// CompositeScore is the value of one successfully evaluated formula rule.
type CompositeScore struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PatternCondition records how one combo condition was satisfied.
type PatternCondition struct {
	ScaleKey string `json:"scale_key"`
	Label    string `json:"label"`
}

// Pattern is emitted only when every condition of a combo rule holds.
type Pattern struct {
	Name    string             `json:"name"`
	Matched bool               `json:"matched"`
	Details []PatternCondition `json:"details"`
}

// Stage names one step of the pipeline.
type Stage string

const (
	StageInit             Stage = "init"
	StageScaleAggregation Stage = "scale_aggregation"
	StageThresholdRules   Stage = "threshold_rules"
	StageFormulaRules     Stage = "formula_rules"
	StageComboRules       Stage = "combo_rules"
	StageComplete         Stage = "complete"
)

// AuditStep is one append-only record of the pipeline. It exists for
// debugging; nothing reads it for control flow.
type AuditStep struct {
	Step      Stage          `json:"step"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// ResultSummary is the complete output of one Evaluate call. A returned
// summary is complete even when Warnings is non-empty; Clean tells the two
// cases apart.
type ResultSummary struct {
	Version         int              `json:"version"`
	ScaleScores     []ScaleScore     `json:"scale_scores"`
	Interpretations []Interpretation `json:"interpretations"`
	CompositeScores []CompositeScore `json:"composite_scores"`
	Patterns        []Pattern        `json:"patterns"`
	Warnings        []Warning        `json:"warnings"`
	Audit           []AuditStep      `json:"audit"`
	DurationMS      int64            `json:"duration_ms"`
}

// Clean reports whether the evaluation finished without any recovered
// anomaly.
func (r ResultSummary) Clean() bool { return len(r.Warnings) == 0 }

// Score returns the aggregated score for key.
func (r ResultSummary) Score(key string) (ScaleScore, bool) {
	for _, s := range r.ScaleScores {
		if s.ScaleKey == key {
			return s, true
		}
	}
	return ScaleScore{}, false
}

// Composite returns the composite score with the given name.
func (r ResultSummary) Composite(name string) (CompositeScore, bool) {
	for _, c := range r.CompositeScores {
		if c.Name == name {
			return c, true
		}
	}
	return CompositeScore{}, false
}

// Interpretation returns the interpretation attached to a scale.
func (r ResultSummary) Interpretation(scaleKey string) (Interpretation, bool) {
	for _, in := range r.Interpretations {
		if in.ScaleKey == scaleKey {
			return in, true
		}
	}
	return Interpretation{}, false
}

// HasPattern reports whether the named pattern matched.
func (r ResultSummary) HasPattern(name string) bool {
	for _, p := range r.Patterns {
		if p.Name == name && p.Matched {
			return true
		}
	}
	return false
}
