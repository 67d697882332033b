package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Text reports the trimmed string form of value. Blank strings, nil, objects
// and arrays are treated as missing.
func Text(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), "."), true
	case int:
		return fmt.Sprintf("%d", v), true
	case int64:
		return fmt.Sprintf("%d", v), true
	case json.Number:
		return v.String(), true
	case bool:
		return fmt.Sprintf("%t", v), true
	}
	return "", false
}

// Lookup walks nested objects by key and returns nil as soon as a step is missing
// or is not an object.
func Lookup(value any, path ...string) any {
	current := value
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

// First returns the first element of value when it is a non-empty array.
func First(value any) any {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	return list[0]
}
