package form

import "strings"

// Transform derives one key segment from another, e.g. "name" → "label_name".
type Transform func(string) string

// DefaultLabelKey prefixes the last key segment with "label_".
func DefaultLabelKey(key string) string { return "label_" + key }

// DefaultHelptextKey prefixes the last key segment with "help_".
func DefaultHelptextKey(key string) string { return "help_" + key }

// DeriveKey composes a namespaced translation key. The last segment of key
// is passed through fn (identity when nil), every other segment is kept and
// base is prepended when non-empty:
//
//	DeriveKey("user-form", "contact.email", DefaultLabelKey) == "user-form.contact.label_email"
func DeriveKey(base, key string, fn Transform) string {
	segments := strings.Split(key, ".")
	last := segments[len(segments)-1]
	if fn != nil {
		last = fn(last)
	}

	out := make([]string, 0, len(segments)+1)
	if base != "" {
		out = append(out, base)
	}
	out = append(out, segments[:len(segments)-1]...)
	out = append(out, last)
	return strings.Join(out, ".")
}

// Identifier turns a field path into a DOM-safe identifier fragment by
// replacing the first "." with "$". Later dots are left untouched:
// Identifier("a.b.c") == "a$b.c".
func Identifier(fieldPath string) string {
	return strings.Replace(fieldPath, ".", "$", 1)
}

// keyDeriver binds a namespace to the plugin's key transforms. Derivation is
// disabled (identity) unless a translate function is configured.
type keyDeriver struct {
	base     string
	enabled  bool
	label    Transform
	helptext Transform
}

func newKeyDeriver(base string, cfg *config) keyDeriver {
	return keyDeriver{
		base:     base,
		enabled:  cfg.translate != nil,
		label:    cfg.labelKey,
		helptext: cfg.helptextKey,
	}
}

func (k keyDeriver) translationKey(key string) string {
	if !k.enabled {
		return key
	}
	return DeriveKey(k.base, key, nil)
}

func (k keyDeriver) labelKey(key string) string {
	if !k.enabled {
		return key
	}
	return DeriveKey(k.base, key, k.label)
}

func (k keyDeriver) helptextKey(key string) string {
	if !k.enabled {
		return key
	}
	return DeriveKey(k.base, key, k.helptext)
}
