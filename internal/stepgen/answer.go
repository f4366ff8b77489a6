package stepgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// NormalizeFinalAnswer flattens whatever the oracle put in finalAnswer to
// a display string. Objects become "key: value, key: value" with sorted
// keys, arrays are comma-joined and scalars are printed as-is. Missing or
// null answers give "".
func NormalizeFinalAnswer(raw json.RawMessage) string {
	return strings.TrimSpace(flatten(raw))
}

func flatten(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if !json.Valid(raw) {
		return string(raw)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	return flattenValue(v)
}

func flattenValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprint(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := flattenValue(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			s := flattenValue(t[k])
			if _, nested := t[k].(map[string]any); nested {
				s = "(" + s + ")"
			}
			parts = append(parts, k+": "+s)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}
