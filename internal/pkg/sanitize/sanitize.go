// Package sanitize strips control characters from analyzer output and
// extracted text before it is persisted or returned to clients.
package sanitize

import "strings"

// Text removes NUL and the C0 control characters except tab, newline and
// carriage return.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == 0x00:
			return -1
		case r >= 0x01 && r <= 0x08:
			return -1
		case r == 0x0B || r == 0x0C:
			return -1
		case r >= 0x0E && r <= 0x1F:
			return -1
		}
		return r
	}, s)
}

// Value applies Text recursively over a decoded JSON value: strings are
// cleaned, slices and string-keyed maps are walked, every other scalar is
// returned untouched.
func Value(v any) any {
	switch x := v.(type) {
	case string:
		return Text(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Value(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Value(item)
		}
		return out
	default:
		return v
	}
}

// StringSlice cleans each element, dropping entries that become empty.
func StringSlice(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if cleaned := Text(s); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
