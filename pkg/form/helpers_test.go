package form_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formmodel"
)

func modelFactory() form.Model {
	return formmodel.New()
}

func noopSubmit(context.Context, form.Values, form.Model) error {
	return nil
}

func newContext(t *testing.T, plugin *form.Plugin, opts form.Options) *form.Context {
	t.Helper()
	if opts.Submit == nil {
		opts.Submit = noopSubmit
	}
	if opts.FormModelFactory == nil {
		opts.FormModelFactory = modelFactory
	}
	fc, err := plugin.NewContext(opts)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return fc
}

// pointerSchema keeps schema identity comparable.
type pointerSchema struct {
	errs []form.ValidationError
}

func (s *pointerSchema) Validate(_ context.Context, values form.Values) (form.ValidationResult, error) {
	if len(s.errs) > 0 {
		return form.Invalid(s.errs...), nil
	}
	return form.Valid(values), nil
}
