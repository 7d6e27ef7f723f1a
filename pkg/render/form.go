package render

import (
	"github.com/goliatone/go-formstate/pkg/form"
)

// Input kinds understood by the bundled renderers.
const (
	InputText     = "text"
	InputEmail    = "email"
	InputPassword = "password"
	InputNumber   = "number"
	InputTextarea = "textarea"
	InputCheckbox = "checkbox"
	InputSelect   = "select"
)

// Choice is one option of a select input.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Input pairs a bound element with presentation hints.
type Input struct {
	Element     *form.Element
	Type        string
	Placeholder string
	Choices     []Choice
}

// Field is the render-time view of one input.
type Field struct {
	form.ElementModel
	Type        string   `json:"type"`
	Placeholder string   `json:"placeholder,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`
}

// Form is the render-time snapshot of one form context.
type Form struct {
	ID     string  `json:"id"`
	State  string  `json:"state"`
	Fields []Field `json:"fields"`
}

// Snapshot captures the current attributes, values and errors of inputs.
// Inputs without an element are skipped.
func Snapshot(fc *form.Context, inputs ...Input) Form {
	out := Form{Fields: make([]Field, 0, len(inputs))}
	if fc != nil {
		out.ID = fc.Handle().String()
		out.State = fc.State().String()
	}
	for _, input := range inputs {
		if input.Element == nil {
			continue
		}
		kind := input.Type
		if kind == "" {
			kind = InputText
		}
		out.Fields = append(out.Fields, Field{
			ElementModel: input.Element.Model(),
			Type:         kind,
			Placeholder:  input.Placeholder,
			Choices:      append([]Choice(nil), input.Choices...),
		})
	}
	return out
}

// Paths lists the field paths of the snapshot in render order.
func (f Form) Paths() []string {
	paths := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		paths[i] = field.Path
	}
	return paths
}
