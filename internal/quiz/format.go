package quiz

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a definition or answers document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format by file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// normalise converts data to JSON so both formats share one decoding path.
func normalise(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return data, nil
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("quiz: decode yaml: %w", err)
		}
		out, err := json.Marshal(jsonCompatible(v))
		if err != nil {
			return nil, fmt.Errorf("quiz: yaml to json: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("quiz: unsupported format %q", format)
	}
}

// jsonCompatible rewrites map[any]any nodes, which yaml.v3 produces for
// mappings with non-string keys, into map[string]any.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = jsonCompatible(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = jsonCompatible(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = jsonCompatible(val)
		}
		return t
	default:
		return v
	}
}

// DecodeAnswers reads a list of raw selections:
//
//	[{"question_id": "q1", "option_id": "a"}, ...]
func DecodeAnswers(data []byte, format Format) ([]engine.RawAnswer, error) {
	raw, err := normalise(data, format)
	if err != nil {
		return nil, err
	}
	var answers []engine.RawAnswer
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("quiz: decode answers: %w", err)
	}
	return answers, nil
}
