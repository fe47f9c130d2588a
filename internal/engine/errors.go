package engine

import (
	"errors"
	"fmt"
)

// ValidationError is the only fatal error Evaluate returns. It is raised at
// the init stage, before any other stage runs, so no partial summary exists.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("engine: invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err (or anything it wraps) is a
// *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Rule-local evaluation failures. They never escape Evaluate; they are turned
// into Warnings of kind WarnRuleEvaluation.
var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrUndeclaredScale  = errors.New("undeclared scale key")
	ErrNonFiniteResult  = errors.New("expression produced a non-finite value")
	ErrExpressionSyntax = errors.New("expression syntax error")
)

// ─── WARNINGS ─────────────────────────────────────────────────────────────────

// WarningKind classifies a recovered anomaly.
type WarningKind string

const (
	WarnMapping        WarningKind = "mapping"
	WarnClamp          WarningKind = "clamp"
	WarnRuleEvaluation WarningKind = "rule_evaluation"
	WarnBandLookupMiss WarningKind = "band_lookup_miss"
)

// Warning is a recovered, non-fatal anomaly. Subject is the scale key, rule
// name, or domain key the warning is about.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Stage   Stage       `json:"stage,omitempty"`
	Subject string      `json:"subject"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s[%s] %s: %s", w.Kind, w.Stage, w.Subject, w.Message)
}
