package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
)

// Renderer drives terminal sessions. Render prompts for every field of a
// snapshot and serializes the answers; Run binds the answers to a form
// context and loops through the submit pipeline.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	errorText    render.ErrorTextFunc
	maxAttempts  int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// three submit attempts).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        Theme{ErrorPrefix: "! ", RequiredMark: " *"},
		maxAttempts:  3,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for each field, seeded with the snapshot values, and
// returns the collected values in the configured output format.
func (r *Renderer) Render(ctx context.Context, snapshot render.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	if opts.ErrorText == nil {
		opts.ErrorText = r.errorText
	}

	for _, msg := range opts.FormErrors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return nil, err
		}
	}

	flat := make(map[string]any, len(snapshot.Fields))
	for _, field := range snapshot.Fields {
		value, err := r.promptField(ctx, field, opts.FieldErrors(field))
		if err != nil {
			return nil, err
		}
		flat[field.Path] = value
	}

	values, err := form.Unflatten(flat)
	if err != nil {
		return nil, fmt.Errorf("tui: collect values: %w", err)
	}
	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, field render.Field, messages []string) (any, error) {
	for _, msg := range messages {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+field.Label+": "+msg); err != nil {
			return nil, err
		}
	}

	message := r.message(field)
	current := valueString(field.Value)

	var (
		value any
		err   error
	)
	switch field.Type {
	case render.InputCheckbox:
		value, err = r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: isChecked(field.Value),
			Help:    field.Helptext,
		})
	case render.InputSelect:
		value, err = r.promptSelect(ctx, field, message, current)
	case render.InputTextarea:
		value, err = r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: current,
			Help:    field.Helptext,
		})
	case render.InputPassword:
		value, err = r.driver.Password(ctx, InputConfig{
			Message: message,
			Help:    field.Helptext,
		})
	case render.InputNumber:
		value, err = r.promptNumber(ctx, field, message, current)
	default:
		value, err = r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: current,
			Help:    field.Helptext,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("tui: prompt %s: %w", field.Path, err)
	}
	return value, nil
}

func (r *Renderer) promptSelect(ctx context.Context, field render.Field, message, current string) (any, error) {
	if len(field.Choices) == 0 {
		return current, nil
	}
	options := make([]string, len(field.Choices))
	selected := 0
	for i, choice := range field.Choices {
		options[i] = choice.Label
		if choice.Value == current {
			selected = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      options,
		DefaultIndex: selected,
		Help:         field.Helptext,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(field.Choices) {
		return "", nil
	}
	return field.Choices[idx].Value, nil
}

func (r *Renderer) promptNumber(ctx context.Context, field render.Field, message, current string) (any, error) {
	raw, err := r.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   current,
		Help:      field.Helptext,
		Validator: validateNumber,
	})
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if parsed, ok := parseFloat(raw); ok {
		return parsed, nil
	}
	return raw, nil
}

func (r *Renderer) message(field render.Field) string {
	label := field.Label
	if label == "" {
		label = field.Path
	}
	msg := r.theme.PromptPrefix + label
	if field.Required {
		msg += r.theme.RequiredMark
	}
	return msg
}

func (r *Renderer) serialize(values form.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		out, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

func validateNumber(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, ok := parseFloat(raw); !ok {
		return fmt.Errorf("%q is not a number", raw)
	}
	return nil
}

func parseFloat(raw string) (float64, bool) {
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "yes", "1":
			return true
		}
	}
	return false
}

func flattenForm(values form.Values) string {
	flattened := url.Values{}
	for path, value := range form.Flatten(values) {
		flattened.Set(path, valueString(value))
	}
	return flattened.Encode()
}

func prettyPrint(values form.Values) string {
	flat := form.Flatten(values)
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		fmt.Fprintf(&b, "%s=%s\n", path, valueString(flat[path]))
	}
	return b.String()
}
