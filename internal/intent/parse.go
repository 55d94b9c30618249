package intent

import (
	"encoding/json"
	"strconv"
	"strings"
)

type llmIntentJSON struct {
	Intent string         `json:"intent"`
	Params map[string]any `json:"params"`
}

// ExtractJSON pulls an intent object out of free-form model output. Providers
// routinely wrap the JSON block in explanatory prose, so this takes the span
// from the first '{' to the last '}' and attempts a single guarded parse of
// that slice. ok is false when there is no brace span, the span is not valid
// JSON, or the object carries no non-empty intent field.
func ExtractJSON(raw string) (string, map[string]string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", nil, false
	}

	var v llmIntentJSON
	if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err != nil {
		return "", nil, false
	}
	if strings.TrimSpace(v.Intent) == "" {
		return "", nil, false
	}

	params := make(map[string]string, len(v.Params))
	for k, val := range v.Params {
		params[k] = coerceString(val)
	}
	return v.Intent, params, true
}

// coerceString flattens scalar JSON param values to strings; nested values
// are re-marshaled rather than dropped.
func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
