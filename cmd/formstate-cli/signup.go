package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/validation"
)

type signupForm struct {
	fc     *form.Context
	inputs []render.Input
}

var plans = []render.Choice{
	{Value: "free", Label: "Free"},
	{Value: "team", Label: "Team"},
	{Value: "enterprise", Label: "Enterprise"},
}

func printSubmit(out io.Writer) form.SubmitHandler {
	return func(_ context.Context, values form.Values, _ form.Model) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}
}

// newSignupForm binds the demo signup form: a name, a nested contact block,
// an age limit, a plan and a newsletter flag.
func newSignupForm(plugin *form.Plugin, i18nBase string, submit form.SubmitHandler) (*signupForm, error) {
	fc, err := plugin.NewContext(form.Options{
		I18nBase: i18nBase,
		Values: form.Values{
			"name":       "",
			"contact":    form.Values{"email": "", "phone": ""},
			"age":        "",
			"plan":       "free",
			"newsletter": false,
		},
		Submit: submit,
	})
	if err != nil {
		return nil, err
	}
	contact := fc.Derive(form.UpdateOptions{Subkey: "contact", DefaultEnableHelptext: form.Bool(true)})

	bindings := []struct {
		fc    *form.Context
		props form.ElementProps
		input render.Input
	}{
		{fc, form.ElementProps{
			Name:     "name",
			Required: true,
			Rule:     validation.For(func(h validation.Helper) *validation.Rule { return h.String().MinLength(2).MaxLength(80) }),
		}, render.Input{Type: render.InputText}},
		{contact, form.ElementProps{
			Name:     "email",
			Required: true,
			Rule: validation.For(func(h validation.Helper) *validation.Rule {
				return h.String().Pattern(`^[^@\s]+@[^@\s]+\.[^@\s]+$`).WithCode("email")
			}),
		}, render.Input{Type: render.InputEmail, Placeholder: "you@example.com"}},
		{contact, form.ElementProps{Name: "phone"}, render.Input{Type: render.InputText}},
		{fc, form.ElementProps{
			Name:     "age",
			Helptext: form.HelptextText("Must be 18 or older."),
			Rule: validation.For(func(h validation.Helper) *validation.Rule { return h.Integer().Min(18).Max(130) }),
		}, render.Input{Type: render.InputNumber}},
		{fc, form.ElementProps{
			Name:     "plan",
			Required: true,
			Rule: validation.For(func(h validation.Helper) *validation.Rule {
				return h.String().Enum("free", "team", "enterprise")
			}),
		}, render.Input{Type: render.InputSelect, Choices: plans}},
		{fc, form.ElementProps{
			Name: "newsletter",
			Rule: validation.For(func(h validation.Helper) *validation.Rule { return h.Boolean() }),
		}, render.Input{Type: render.InputCheckbox}},
	}

	out := &signupForm{fc: fc}
	for _, b := range bindings {
		el, err := form.Bind(b.fc, b.props)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.props.Name, err)
		}
		input := b.input
		input.Element = el
		out.inputs = append(out.inputs, input)
	}
	return out, nil
}
