package engine

import (
	"fmt"
	"sort"
	"time"
)

// Option is one selectable answer of a question, with weights keyed by the
// authoring format's domain keys.
type Option struct {
	ID      string             `json:"id"`
	Text    string             `json:"text,omitempty"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// Question is the part of a question definition the mapper needs.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt,omitempty"`
	Options []Option `json:"options"`
}

// RawAnswer is a respondent's selection before translation.
type RawAnswer struct {
	QuestionID string    `json:"question_id"`
	OptionID   string    `json:"option_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Mapper translates domain-key weights into canonical scale-key weights. The
// translation table is configuration, so several authoring schemes can each
// have their own Mapper. A Mapper is immutable and safe for concurrent use.
type Mapper struct {
	table map[string]string
}

// NewMapper copies table (domain key → scale key). A nil or empty table makes
// the Mapper an identity translation: option weights are assumed to be keyed
// by scale already.
func NewMapper(table map[string]string) *Mapper {
	t := make(map[string]string, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &Mapper{table: t}
}

// Identity reports whether the Mapper passes keys through unchanged.
func (m *Mapper) Identity() bool { return len(m.table) == 0 }

// Map produces the canonical Answer for raw against q. ok is false when the
// option is unknown, carries no weights, or none of its domain keys has a
// translation. Each untranslated domain key is dropped (never defaulted to
// zero) and reported as a WarnMapping warning. Two domain keys that translate
// to the same scale key are summed.
func (m *Mapper) Map(raw RawAnswer, q Question) (ans Answer, warnings []Warning, ok bool) {
	var opt *Option
	for i := range q.Options {
		if q.Options[i].ID == raw.OptionID {
			opt = &q.Options[i]
			break
		}
	}
	if opt == nil {
		return Answer{}, []Warning{{
			Kind:    WarnMapping,
			Subject: q.ID,
			Message: fmt.Sprintf("option %q is not defined on question %q", raw.OptionID, q.ID),
		}}, false
	}
	if len(opt.Weights) == 0 {
		return Answer{}, nil, false
	}

	// Sorted iteration keeps warning order stable across calls.
	keys := make([]string, 0, len(opt.Weights))
	for k := range opt.Weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	weights := make(map[string]float64, len(keys))
	for _, domainKey := range keys {
		scaleKey := domainKey
		if !m.Identity() {
			mapped, found := m.table[domainKey]
			if !found {
				warnings = append(warnings, Warning{
					Kind:    WarnMapping,
					Subject: domainKey,
					Message: fmt.Sprintf("question %q option %q: no scale mapping for domain key", q.ID, opt.ID),
				})
				continue
			}
			scaleKey = mapped
		}
		weights[scaleKey] += opt.Weights[domainKey]
	}

	if len(weights) == 0 {
		return Answer{}, warnings, false
	}

	return Answer{
		QuestionID: q.ID,
		Weights:    weights,
		Timestamp:  raw.Timestamp,
	}, warnings, true
}

// MapAll maps every raw answer whose question appears in questions. Raw
// answers for unknown questions are skipped with a WarnMapping warning.
func (m *Mapper) MapAll(raws []RawAnswer, questions []Question) ([]Answer, []Warning) {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	var (
		answers  []Answer
		warnings []Warning
	)
	for _, raw := range raws {
		q, found := byID[raw.QuestionID]
		if !found {
			warnings = append(warnings, Warning{
				Kind:    WarnMapping,
				Subject: raw.QuestionID,
				Message: "answer references an unknown question",
			})
			continue
		}
		ans, ws, ok := m.Map(raw, q)
		warnings = append(warnings, ws...)
		if ok {
			answers = append(answers, ans)
		}
	}
	return answers, warnings
}
