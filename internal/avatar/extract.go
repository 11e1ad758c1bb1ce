package avatar

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidModelOutput indicates the model response contained no parseable
// JSON object.
var ErrInvalidModelOutput = errors.New("avatar: model output is not valid JSON")

// Extract locates the JSON object embedded in a model response. Models wrap
// their output in prose or markdown fences, so the span between the first '{'
// and the last '}' is tried before the raw text. The result must decode to an
// object, not an array or scalar.
func Extract(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidModelOutput
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if doc, ok := decodeObject(raw[start : end+1]); ok {
			return doc, nil
		}
	}
	if doc, ok := decodeObject(raw); ok {
		return doc, nil
	}
	return nil, ErrInvalidModelOutput
}

func decodeObject(s string) (map[string]any, bool) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, false
	}
	if doc == nil {
		return nil, false
	}
	return doc, true
}
