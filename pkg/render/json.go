package render

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// JSONRenderer writes the form snapshot with resolved error messages as
// JSON, for script clients of the HTTP host.
type JSONRenderer struct{}

var _ Renderer = JSONRenderer{}

type jsonField struct {
	Path        string   `json:"path"`
	Identifier  string   `json:"identifier"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Helptext    string   `json:"helptext,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Error       string   `json:"error,omitempty"`
	Required    bool     `json:"required"`
	Value       any      `json:"value"`
	Choices     []Choice `json:"choices,omitempty"`
	Messages    []string `json:"messages,omitempty"`
}

func newJSONField(field Field) jsonField {
	return jsonField{
		Path:        field.Path,
		Identifier:  field.Identifier,
		Type:        field.Type,
		Label:       field.Label,
		Helptext:    field.Helptext,
		Placeholder: field.Placeholder,
		Error:       field.Error,
		Required:    field.Required,
		Value:       field.Value,
		Choices:     field.Choices,
	}
}

// MarshalJSON encodes the field with the element attributes inlined.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(newJSONField(f))
}

type jsonForm struct {
	ID     string            `json:"id"`
	State  string            `json:"state"`
	Action string            `json:"action,omitempty"`
	Method string            `json:"method"`
	Fields []jsonField       `json:"fields"`
	Errors []string          `json:"errors,omitempty"`
	Hidden map[string]string `json:"hidden,omitempty"`
}

// Name implements Renderer.
func (JSONRenderer) Name() string { return "json" }

// ContentType implements Renderer.
func (JSONRenderer) ContentType() string { return "application/json" }

// Render implements Renderer.
func (JSONRenderer) Render(_ context.Context, form Form, options RenderOptions) ([]byte, error) {
	payload := jsonForm{
		ID:     form.ID,
		State:  form.State,
		Action: options.Action,
		Method: options.MethodOrDefault(),
		Fields: make([]jsonField, 0, len(form.Fields)),
		Errors: normalizeMessages(options.FormErrors),
		Hidden: MergeHiddenFields(options.Hidden),
	}
	for _, field := range form.Fields {
		out := newJSONField(field)
		out.Messages = options.FieldErrors(field)
		payload.Fields = append(payload.Fields, out)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("render: encode json: %w", err)
	}
	return out, nil
}
