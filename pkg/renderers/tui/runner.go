package tui

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
)

// Run prompts every input, writes the answers into the bound elements and
// submits fc. When validation fails only the inputs carrying an error are
// prompted again, with their messages, until the submit commits or the
// attempts run out.
func (r *Renderer) Run(ctx context.Context, fc *form.Context, inputs ...render.Input) (form.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if fc == nil {
		return form.OutcomeFailed, form.ErrNoContext
	}
	if r.driver == nil {
		return form.OutcomeFailed, ErrNoDriver
	}

	bound := make([]render.Input, 0, len(inputs))
	for _, input := range inputs {
		if input.Element != nil {
			bound = append(bound, input)
		}
	}

	options := render.RenderOptions{ErrorText: r.errorText}
	pending := bound
	for attempt := 1; ; attempt++ {
		snapshot := render.Snapshot(fc, pending...)
		for i, field := range snapshot.Fields {
			value, err := r.promptField(ctx, field, options.FieldErrors(field))
			if err != nil {
				return form.OutcomeFailed, err
			}
			pending[i].Element.SetValue(value)
		}

		outcome, err := fc.Run(ctx)
		if err != nil {
			return outcome, fmt.Errorf("tui: submit: %w", err)
		}
		if outcome == form.OutcomeCommitted {
			return outcome, nil
		}
		if attempt >= r.maxAttempts {
			return outcome, ErrTooManyAttempts
		}

		pending = failing(bound)
		if len(pending) == 0 {
			pending = bound
		}
	}
}

func failing(inputs []render.Input) []render.Input {
	var out []render.Input
	for _, input := range inputs {
		if input.Element.ErrorCode() != "" {
			out = append(out, input)
		}
	}
	return out
}
