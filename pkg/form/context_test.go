package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
)

func TestNewContextRequiresModelFactory(t *testing.T) {
	_, err := form.NewPlugin().NewContext(form.Options{Submit: noopSubmit})
	if !errors.Is(err, form.ErrNoFormModel) {
		t.Fatalf("expected ErrNoFormModel, got %v", err)
	}
	var cfgErr *form.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError, got %T", err)
	}
}

func TestNewContextRejectsNilModel(t *testing.T) {
	_, err := form.NewPlugin().NewContext(form.Options{
		Submit:           noopSubmit,
		FormModelFactory: func() form.Model { return nil },
	})
	if !errors.Is(err, form.ErrNoFormModel) {
		t.Fatalf("expected ErrNoFormModel, got %v", err)
	}
}

func TestNewContextRequiresSubmit(t *testing.T) {
	_, err := form.NewPlugin(form.WithFormModelFactory(modelFactory)).NewContext(form.Options{})
	if !errors.Is(err, form.ErrNoSubmitHandler) {
		t.Fatalf("expected ErrNoSubmitHandler, got %v", err)
	}
}

func TestNewContextInitializesModel(t *testing.T) {
	fc := newContext(t, form.NewPlugin(), form.Options{
		Values: form.Values{"contact": map[string]any{"email": "a@b.c"}},
	})

	got, err := fc.Form().Values()
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	want := form.Values{"contact": map[string]any{"email": "a@b.c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if fc.Validates() {
		t.Fatalf("validation must be disabled without a schema builder factory")
	}
}

func TestDeriveSubkey(t *testing.T) {
	plugin := form.NewPlugin(form.WithTranslate(func(k string) string { return k }))
	root := newContext(t, plugin, form.Options{I18nBase: "root-form"})

	child := root.Derive(form.UpdateOptions{Subkey: "bar"})

	if got, want := child.FieldPath("foo"), "bar.foo"; got != want {
		t.Fatalf("FieldPath = %q, want %q", got, want)
	}
	if got, want := child.LabelKey("foo"), "root-form.bar.label_foo"; got != want {
		t.Fatalf("LabelKey = %q, want %q", got, want)
	}
	if got, want := root.FieldPath("foo"), "foo"; got != want {
		t.Fatalf("parent FieldPath changed: %q", got)
	}
	if child.Form() != root.Form() {
		t.Fatalf("derived context must share the form model")
	}
	if child.Handle() != root.Handle() {
		t.Fatalf("derived context must share the handle")
	}

	grandchild := child.Derive(form.UpdateOptions{Subkey: "baz"})
	if got, want := grandchild.FieldPath("qux"), "bar.baz.qux"; got != want {
		t.Fatalf("nested FieldPath = %q, want %q", got, want)
	}
	if got, want := grandchild.LabelKey("qux"), "root-form.bar.baz.label_qux"; got != want {
		t.Fatalf("nested LabelKey = %q, want %q", got, want)
	}
}

func TestDeriveI18nBase(t *testing.T) {
	plugin := form.NewPlugin(form.WithTranslate(func(k string) string { return k }))
	root := newContext(t, plugin, form.Options{I18nBase: "root-form"})

	child := root.Derive(form.UpdateOptions{Subkey: "bar", I18nBase: "child-form"})

	if got, want := child.LabelKey("foo"), "child-form.label_foo"; got != want {
		t.Fatalf("LabelKey = %q, want %q", got, want)
	}
	if got, want := child.FieldPath("foo"), "bar.foo"; got != want {
		t.Fatalf("FieldPath = %q, want %q", got, want)
	}
}

func TestDeriveHelptextDefault(t *testing.T) {
	root := newContext(t, form.NewPlugin(form.WithDefaultEnableHelptext(true)), form.Options{})
	if !root.DefaultEnableHelptext() {
		t.Fatalf("expected plugin default to apply")
	}

	child := root.Derive(form.UpdateOptions{DefaultEnableHelptext: form.Bool(false)})
	if child.DefaultEnableHelptext() {
		t.Fatalf("expected override to disable help text")
	}
	if !root.DefaultEnableHelptext() {
		t.Fatalf("parent must be left untouched")
	}

	inherited := child.Derive(form.UpdateOptions{Subkey: "x"})
	if inherited.DefaultEnableHelptext() {
		t.Fatalf("expected the child value to be inherited")
	}
}

func TestProvideUse(t *testing.T) {
	if _, err := form.Use(context.Background()); !errors.Is(err, form.ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}

	plugin := form.NewPlugin(form.WithFormModelFactory(modelFactory))
	ctx, fc, err := plugin.Create(context.Background(), form.Options{Submit: noopSubmit})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := form.Use(ctx)
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	if got != fc {
		t.Fatalf("Use returned a different context")
	}

	childCtx, child, err := form.Update(ctx, form.UpdateOptions{Subkey: "address"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if form.MustUse(childCtx) != child {
		t.Fatalf("nearest provider must win")
	}
	if form.MustUse(ctx) != fc {
		t.Fatalf("sibling scope must keep the parent")
	}
}

func TestUpdateWithoutContext(t *testing.T) {
	_, _, err := form.Update(context.Background(), form.UpdateOptions{Subkey: "x"})
	if !errors.Is(err, form.ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}
}

func TestMustUsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	form.MustUse(context.Background())
}

func TestDefaultPluginInstall(t *testing.T) {
	t.Cleanup(func() { form.Install(nil) })

	if _, err := form.NewContext(form.Options{Submit: noopSubmit}); !errors.Is(err, form.ErrNoFormModel) {
		t.Fatalf("expected ErrNoFormModel from zero default, got %v", err)
	}

	form.Install(form.NewPlugin(form.WithFormModelFactory(modelFactory)))
	ctx, fc, err := form.Create(context.Background(), form.Options{Submit: noopSubmit})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if form.MustUse(ctx) != fc {
		t.Fatalf("expected created context to be provided")
	}
}
