package core

import (
	"sort"
	"strings"
)

// ClassSet normalizes a class attribute value into a set of class names.
// Accepted shapes: a whitespace-separated string, a []string, a []any of
// strings, or a map whose truthy values select the key ("classnames" style).
func ClassSet(value any) map[string]struct{} {
	set := make(map[string]struct{})
	addAll := func(s string) {
		for _, name := range strings.Fields(s) {
			set[name] = struct{}{}
		}
	}

	switch v := value.(type) {
	case nil:
	case string:
		addAll(v)
	case []string:
		for _, s := range v {
			addAll(s)
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				addAll(s)
			}
		}
	case map[string]bool:
		for name, on := range v {
			if on {
				addAll(name)
			}
		}
	case map[string]any:
		for name, on := range v {
			if truthy(on) {
				addAll(name)
			}
		}
	}
	return set
}

// ClassesEqual compares two class attribute values as normalized sets,
// ignoring order, duplicates, and input shape.
func ClassesEqual(a, b any) bool {
	sa := ClassSet(a)
	sb := ClassSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for name := range sa {
		if _, ok := sb[name]; !ok {
			return false
		}
	}
	return true
}

// ClassString renders a class attribute value as a canonical sorted string.
func ClassString(value any) string {
	set := ClassSet(value)
	if len(set) == 0 {
		return ""
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case float64:
		return t != 0
	case nil:
		return false
	default:
		return true
	}
}
