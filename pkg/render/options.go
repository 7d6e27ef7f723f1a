package render

import "github.com/goliatone/go-formstate/pkg/form"

// ErrorTextFunc turns a field error code into display text.
type ErrorTextFunc func(code string, field form.ElementModel) string

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form context.
type RenderOptions struct {
	// Locale is exposed to templates for translation helpers.
	Locale string
	// Action and Method describe the submission target. Method defaults to
	// POST.
	Action string
	Method string
	// Hidden adds hidden inputs rendered before the visible fields.
	Hidden map[string]string
	// FormErrors are form-level messages shown above the fields.
	FormErrors []string
	// Errors surfaces server-side feedback keyed by field path. Entries take
	// precedence over the field's error code.
	Errors map[string][]string
	// ErrorText translates field error codes. The code is shown verbatim when
	// nil.
	ErrorText ErrorTextFunc
	// SubmitLabel and ResetLabel caption the form buttons. An empty
	// ResetLabel hides the reset button.
	SubmitLabel string
	ResetLabel  string
}

// FieldErrors resolves the messages shown for field: server messages first,
// then the translated error code.
func (o RenderOptions) FieldErrors(field Field) []string {
	if msgs := normalizeMessages(o.Errors[field.Path]); len(msgs) > 0 {
		return msgs
	}
	if field.Error == "" {
		return nil
	}
	if o.ErrorText != nil {
		if text := o.ErrorText(field.Error, field.ElementModel); text != "" {
			return []string{text}
		}
	}
	return []string{field.Error}
}

// MethodOrDefault returns the configured method, POST when empty.
func (o RenderOptions) MethodOrDefault() string {
	if o.Method == "" {
		return "POST"
	}
	return o.Method
}
