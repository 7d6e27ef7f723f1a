package form

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Values is the nested value tree owned by a form model. Nested objects are
// map[string]any (or Values); leaves are any JSON-compatible value.
type Values = map[string]any

// Unflatten expands dotted keys into a nested tree. Keys are processed in
// sorted order so parents are always visited before their children.
func Unflatten(flat map[string]any) (Values, error) {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make(Values, len(flat))
	for _, key := range keys {
		segments := strings.Split(key, ".")
		last := segments[len(segments)-1]
		if last == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, key)
		}
		obj := result
		for _, segment := range segments[:len(segments)-1] {
			if segment == "" {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPath, key)
			}
			next, exists := obj[segment]
			if !exists {
				child := make(Values)
				obj[segment] = child
				obj = child
				continue
			}
			child, ok := asObject(next)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrPathConflict, key)
			}
			obj = child
		}
		obj[last] = flat[key]
	}
	return result, nil
}

// Flatten collapses a nested tree into dotted keys, one per leaf. Empty
// nested objects produce no keys.
func Flatten(values Values) map[string]any {
	target := make(map[string]any)
	flattenInto(values, "", target)
	return target
}

func flattenInto(values Values, prefix string, target map[string]any) {
	for key, value := range values {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := asObject(value); ok {
			flattenInto(child, path, target)
			continue
		}
		target[path] = value
	}
}

// Lookup reads the value stored under a dotted path.
func Lookup(values Values, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = values
	for _, segment := range strings.Split(path, ".") {
		obj, ok := asObject(current)
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Decode converts a value tree into a typed value using its JSON shape.
func Decode[T any](values Values) (T, error) {
	var out T
	raw, err := json.Marshal(values)
	if err != nil {
		return out, fmt.Errorf("form: encode values: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("form: decode values: %w", err)
	}
	return out, nil
}

func asObject(value any) (map[string]any, bool) {
	obj, ok := value.(map[string]any)
	return obj, ok
}
