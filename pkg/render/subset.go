package render

import "strings"

// FieldSubset selects the fields of a sub-region. Prefixes match a path and
// everything nested below it; Paths match exactly.
type FieldSubset struct {
	Prefixes []string
	Paths    []string
}

// ApplySubset removes fields that match neither list. An empty subset leaves
// the form unchanged.
func ApplySubset(form *Form, subset FieldSubset) {
	if form == nil {
		return
	}
	matcher := newSubsetMatcher(subset)
	if matcher.empty() {
		return
	}

	filtered := make([]Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		if matcher.matches(field.Path) {
			filtered = append(filtered, field)
		}
	}
	if len(filtered) == 0 {
		filtered = nil
	}
	form.Fields = filtered
}

type subsetMatcher struct {
	prefixes []string
	paths    map[string]struct{}
}

func newSubsetMatcher(subset FieldSubset) subsetMatcher {
	m := subsetMatcher{paths: make(map[string]struct{}, len(subset.Paths))}
	for _, prefix := range subset.Prefixes {
		if token := normaliseToken(prefix); token != "" {
			m.prefixes = append(m.prefixes, token)
		}
	}
	for _, path := range subset.Paths {
		if token := normaliseToken(path); token != "" {
			m.paths[token] = struct{}{}
		}
	}
	return m
}

func (m subsetMatcher) empty() bool {
	return len(m.prefixes) == 0 && len(m.paths) == 0
}

func (m subsetMatcher) matches(path string) bool {
	if _, ok := m.paths[path]; ok {
		return true
	}
	for _, prefix := range m.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+".") {
			return true
		}
	}
	return false
}

func normaliseToken(value string) string {
	return strings.Trim(strings.TrimSpace(value), ".")
}
