package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"
)

// Engine runs the result pipeline. It holds only configuration, never
// per-call state, so one Engine may serve any number of concurrent calls.
type Engine struct {
	logger *slog.Logger
	now    func() time.Time
}

// Opt configures an Engine.
type Opt func(*Engine)

// WithLogger sends every recovered warning to logger at Warn level and stage
// progress at Debug level. The default logger discards everything.
func WithLogger(logger *slog.Logger) Opt {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces time.Now for audit timestamps and duration.
func WithClock(now func() time.Time) Opt {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New returns an Engine with the given options applied.
func New(opts ...Opt) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// With returns a copy of e with opts applied on top of its configuration.
// Callers use it to attach request-scoped logger attributes.
func (e *Engine) With(opts ...Opt) *Engine {
	c := *e
	for _, o := range opts {
		o(&c)
	}
	return &c
}

// Evaluate runs the pipeline over in:
//
//  1. init              : precondition checks; a failure returns *ValidationError
//  2. scale_aggregation : sum weights per scale, clamp to [min, max]
//  3. threshold_rules   : band interpretations
//  4. formula_rules     : composite scores
//  5. combo_rules       : multi-scale patterns
//  6. complete          : total duration and step count
//
// Failures inside stages 3 to 5 are rule-local: they become Warnings and never
// abort the pipeline. Evaluate does not modify in and the returned summary
// shares no mutable state with it.
func (e *Engine) Evaluate(in Input) (ResultSummary, error) {
	start := e.now()
	log := e.logger.With("version", in.Version)

	var (
		audit    []AuditStep
		warnings = append([]Warning(nil), in.Warnings...)
	)
	record := func(stage Stage, data map[string]any) {
		audit = append(audit, AuditStep{Step: stage, Timestamp: e.now(), Data: data})
		log.Debug("engine: stage complete", "stage", stage)
	}
	warn := func(ws []Warning) {
		for _, w := range ws {
			log.Warn("engine: recovered warning",
				"kind", w.Kind,
				"stage", w.Stage,
				"subject", w.Subject,
				"message", w.Message,
			)
		}
		warnings = append(warnings, ws...)
	}

	// ── 1. init ───────────────────────────────────────────────────────────────
	if err := validateInput(in); err != nil {
		log.Warn("engine: validation failed", "error", err)
		return ResultSummary{}, err
	}
	counts := map[RuleKind]int{}
	for _, r := range in.Rules {
		counts[r.Kind()]++
	}
	record(StageInit, map[string]any{
		"scales":          len(in.Scales),
		"answers":         len(in.Answers),
		"threshold_rules": counts[KindThreshold],
		"formula_rules":   counts[KindFormula],
		"combo_rules":     counts[KindCombo],
	})

	// ── 2. scale_aggregation ──────────────────────────────────────────────────
	scores, ws := Aggregate(in.Scales, in.Answers)
	warn(ws)
	snapshot := make(map[string]any, len(scores))
	for k, v := range scores {
		snapshot[k] = v
	}
	record(StageScaleAggregation, map[string]any{
		"scores":  snapshot,
		"clamped": len(ws),
	})

	// ── 3. threshold_rules ────────────────────────────────────────────────────
	interpretations, ws := EvaluateThresholds(in.Scales, scores, in.Rules)
	warn(ws)
	record(StageThresholdRules, map[string]any{
		"evaluated":       counts[KindThreshold],
		"interpretations": len(interpretations),
		"warnings":        len(ws),
	})

	// ── 4. formula_rules ──────────────────────────────────────────────────────
	composites, ws := EvaluateFormulas(scores, in.Rules)
	warn(ws)
	record(StageFormulaRules, map[string]any{
		"evaluated": counts[KindFormula],
		"succeeded": len(composites),
		"failed":    len(ws),
	})

	// ── 5. combo_rules ────────────────────────────────────────────────────────
	patterns, ws := EvaluateCombos(in.Scales, scores, in.Rules)
	warn(ws)
	record(StageComboRules, map[string]any{
		"evaluated": counts[KindCombo],
		"matched":   len(patterns),
		"warnings":  len(ws),
	})

	// ── 6. complete ───────────────────────────────────────────────────────────
	duration := e.now().Sub(start)
	record(StageComplete, map[string]any{
		"duration_ms": duration.Milliseconds(),
		"steps":       len(audit) + 1,
	})

	summary := ResultSummary{
		Version:         in.Version,
		ScaleScores:     scaleScores(in.Scales, scores),
		Interpretations: nonNil(interpretations),
		CompositeScores: nonNil(composites),
		Patterns:        nonNil(patterns),
		Warnings:        nonNil(warnings),
		Audit:           audit,
		DurationMS:      duration.Milliseconds(),
	}

	log.Info("engine: evaluation complete",
		"scales", len(summary.ScaleScores),
		"interpretations", len(summary.Interpretations),
		"composites", len(summary.CompositeScores),
		"patterns", len(summary.Patterns),
		"warnings", len(summary.Warnings),
	)
	return summary, nil
}

// EvaluateContext is Evaluate for callers that thread a context through every
// call. The engine never blocks, so ctx is only checked before starting.
func (e *Engine) EvaluateContext(ctx context.Context, in Input) (ResultSummary, error) {
	if err := ctx.Err(); err != nil {
		return ResultSummary{}, err
	}
	return e.Evaluate(in)
}

// validateInput enforces the init-stage preconditions.
func validateInput(in Input) error {
	if len(in.Scales) == 0 {
		return &ValidationError{Field: "scales", Message: "at least one scale is required"}
	}
	if len(in.Answers) == 0 {
		return &ValidationError{Field: "answers", Message: "at least one answer is required"}
	}

	seen := make(map[string]struct{}, len(in.Scales))
	for i, s := range in.Scales {
		if strings.TrimSpace(s.Key) == "" {
			return &ValidationError{Field: fmt.Sprintf("scales[%d].key", i), Message: "must not be empty"}
		}
		if _, dup := seen[s.Key]; dup {
			return &ValidationError{Field: fmt.Sprintf("scales[%d].key", i), Message: fmt.Sprintf("duplicate scale key %q", s.Key)}
		}
		seen[s.Key] = struct{}{}
		if math.IsNaN(s.Min) || math.IsNaN(s.Max) {
			return &ValidationError{Field: fmt.Sprintf("scales[%d]", i), Message: "min and max must be numbers"}
		}
		if s.Min > s.Max {
			return &ValidationError{Field: fmt.Sprintf("scales[%d]", i), Message: fmt.Sprintf("min %g is greater than max %g", s.Min, s.Max)}
		}
	}

	for i, r := range in.Rules {
		if r.Kind() == "" {
			return &ValidationError{Field: fmt.Sprintf("rules[%d]", i), Message: "rule was not built with a constructor or ParseRule"}
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
