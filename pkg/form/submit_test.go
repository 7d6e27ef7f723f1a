package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formmodel"
)

func schemaFactory(schema form.Schema) form.SchemaBuilderFactory {
	return func() form.SchemaBuilder {
		return form.NewGenericSchemaBuilder(nil, func(form.RuleSet) (form.Schema, error) {
			return schema, nil
		})
	}
}

func TestSubmitWithoutValidationCommits(t *testing.T) {
	var (
		calls int
		got   form.Values
		fc    *form.Context
		state form.State
	)
	fc = newContext(t, form.NewPlugin(), form.Options{
		Values: form.Values{"firstname": "Ada"},
		Submit: func(_ context.Context, values form.Values, _ form.Model) error {
			calls++
			got = values
			state = fc.State()
			return nil
		},
	})

	el, err := form.Bind(fc, form.ElementProps{Name: "firstname"})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	el.SetValue("Grace")

	outcome, err := fc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome != form.OutcomeCommitted {
		t.Fatalf("expected committed, got %s", outcome)
	}
	if calls != 1 {
		t.Fatalf("expected one handler call, got %d", calls)
	}
	if diff := cmp.Diff(form.Values{"firstname": "Grace"}, got); diff != "" {
		t.Fatalf("handler values mismatch (-want +got):\n%s", diff)
	}
	if state != form.StateCommitting {
		t.Fatalf("expected committing during the handler, got %s", state)
	}
	if fc.State() != form.StateIdle {
		t.Fatalf("expected idle after submit, got %s", fc.State())
	}

	baseline, err := fc.Form().(*formmodel.Model).Baseline()
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	if diff := cmp.Diff(form.Values{"firstname": "Grace"}, baseline); diff != "" {
		t.Fatalf("baseline mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitValidationErrorsSkipHandler(t *testing.T) {
	calls := 0
	schema := &pointerSchema{errs: []form.ValidationError{{Key: "required", FieldPath: "firstname"}}}
	fc := newContext(t, form.NewPlugin(form.WithSchemaBuilderFactory(schemaFactory(schema))), form.Options{
		Submit: func(context.Context, form.Values, form.Model) error {
			calls++
			return nil
		},
	})
	el, err := form.Bind(fc, form.ElementProps{Name: "firstname"})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	outcome, err := fc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome != form.OutcomeInvalid {
		t.Fatalf("expected invalid, got %s", outcome)
	}
	if calls != 0 {
		t.Fatalf("handler must not run on validation errors")
	}
	if got := el.ErrorCode(); got != "required" {
		t.Fatalf("expected field error required, got %q", got)
	}
	if got := el.Model().Error; got != "required" {
		t.Fatalf("expected element model error required, got %q", got)
	}
	if fc.State() != form.StateIdle {
		t.Fatalf("expected idle after submit, got %s", fc.State())
	}
	if err := fc.Submit(context.Background()); err != nil {
		t.Fatalf("Submit must not report validation errors: %v", err)
	}
}

func TestSubmitUsesNormalizedValues(t *testing.T) {
	var got form.Values
	schema := form.SchemaFunc(func(_ context.Context, values form.Values) (form.ValidationResult, error) {
		return form.Valid(form.Values{"age": 42.0}), nil
	})
	fc := newContext(t, form.NewPlugin(), form.Options{
		Values:               form.Values{"age": "42"},
		SchemaBuilderFactory: schemaFactory(schema),
		Submit: func(_ context.Context, values form.Values, _ form.Model) error {
			got = values
			return nil
		},
	})

	if err := fc.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if diff := cmp.Diff(form.Values{"age": 42.0}, got); diff != "" {
		t.Fatalf("handler values mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitClearsErrorsOnCommit(t *testing.T) {
	fc := newContext(t, form.NewPlugin(), form.Options{})
	el, err := form.Bind(fc, form.ElementProps{Name: "email"})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := fc.Form().SetErrors([]form.ValidationError{{Key: "format", FieldPath: "email"}}); err != nil {
		t.Fatalf("SetErrors: %v", err)
	}
	if el.ErrorCode() != "format" {
		t.Fatalf("expected pre-set error")
	}

	if err := fc.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := el.ErrorCode(); got != "" {
		t.Fatalf("expected errors cleared, got %q", got)
	}
}

func TestSubmitHandlerErrorPropagates(t *testing.T) {
	boom := errors.New("backend down")
	fc := newContext(t, form.NewPlugin(), form.Options{
		Values: form.Values{"name": "old"},
		Submit: func(context.Context, form.Values, form.Model) error {
			return boom
		},
	})
	el, _ := form.Bind(fc, form.ElementProps{Name: "name"})
	el.SetValue("new")

	outcome, err := fc.Run(context.Background())
	if err != boom {
		t.Fatalf("expected the handler error unchanged, got %v", err)
	}
	if outcome != form.OutcomeFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
	if fc.State() != form.StateIdle {
		t.Fatalf("expected idle after failure, got %s", fc.State())
	}

	baseline, _ := fc.Form().(*formmodel.Model).Baseline()
	if diff := cmp.Diff(form.Values{"name": "old"}, baseline); diff != "" {
		t.Fatalf("baseline must not change on failure (-want +got):\n%s", diff)
	}
	el.Reset()
	if got := el.Value(); got != "old" {
		t.Fatalf("expected reset to the baseline, got %v", got)
	}
}

func TestSubmitSchemaErrorPropagates(t *testing.T) {
	boom := errors.New("schema exploded")
	calls := 0
	schema := form.SchemaFunc(func(context.Context, form.Values) (form.ValidationResult, error) {
		return form.ValidationResult{}, boom
	})
	fc := newContext(t, form.NewPlugin(), form.Options{
		SchemaBuilderFactory: schemaFactory(schema),
		Submit: func(context.Context, form.Values, form.Model) error {
			calls++
			return nil
		},
	})

	if err := fc.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("handler must not run after a schema error")
	}
}

func TestSubmitBuildErrorPropagates(t *testing.T) {
	boom := errors.New("bad rule")
	factory := func() form.SchemaBuilder {
		return form.NewGenericSchemaBuilder(nil, func(form.RuleSet) (form.Schema, error) {
			return nil, boom
		})
	}
	fc := newContext(t, form.NewPlugin(), form.Options{SchemaBuilderFactory: factory})
	if err := fc.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}
}

func TestSubmitRunsAgainAfterFailure(t *testing.T) {
	fail := true
	calls := 0
	fc := newContext(t, form.NewPlugin(), form.Options{
		Submit: func(ctx context.Context, _ form.Values, _ form.Model) error {
			calls++
			if fail {
				return errors.New("transient")
			}
			return ctx.Err()
		},
	})

	if err := fc.Submit(context.Background()); err == nil {
		t.Fatalf("expected first submit to fail")
	}
	fail = false
	if err := fc.Submit(context.Background()); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected two handler calls, got %d", calls)
	}
}

func TestStateAndOutcomeStrings(t *testing.T) {
	got := []string{
		form.StateIdle.String(),
		form.StateValidating.String(),
		form.StateErroring.String(),
		form.StateCommitting.String(),
		form.OutcomeFailed.String(),
		form.OutcomeInvalid.String(),
		form.OutcomeCommitted.String(),
	}
	want := []string{"idle", "validating", "erroring", "committing", "failed", "invalid", "committed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("strings mismatch (-want +got):\n%s", diff)
	}
}
