package validation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func buildSchema(t *testing.T, rules map[string]func(validation.Helper) *validation.Rule) form.Schema {
	t.Helper()
	builder := validation.NewSchemaBuilder()
	for path, fn := range rules {
		builder.Register(path, validation.For(fn))
	}
	schema, err := builder.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	return schema
}

var ignoreMeta = cmpopts.IgnoreFields(form.ValidationError{}, "Meta")

func TestValidateReportsErrorCodes(t *testing.T) {
	schema := buildSchema(t, map[string]func(validation.Helper) *validation.Rule{
		"firstname": func(h validation.Helper) *validation.Rule { return h.String().Required() },
		"lastname":  func(h validation.Helper) *validation.Rule { return h.String().MinLength(3) },
		"age":       func(h validation.Helper) *validation.Rule { return h.Integer().Max(120) },
		"color":     func(h validation.Helper) *validation.Rule { return h.String().Enum("red", "blue") },
		"zip":       func(h validation.Helper) *validation.Rule { return h.String().Pattern(`^\d{5}$`) },
	})

	result, err := schema.Validate(context.Background(), form.Values{
		"firstname": "",
		"lastname":  "Li",
		"age":       "130",
		"color":     "green",
		"zip":       "abc",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := []form.ValidationError{
		{Key: "maximum", FieldPath: "age"},
		{Key: "enum", FieldPath: "color"},
		{Key: "required", FieldPath: "firstname"},
		{Key: "minLength", FieldPath: "lastname"},
		{Key: "pattern", FieldPath: "zip"},
	}
	if diff := cmp.Diff(want, result.Errors, ignoreMeta); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateNormalizesValues(t *testing.T) {
	schema := buildSchema(t, map[string]func(validation.Helper) *validation.Rule{
		"age":            func(h validation.Helper) *validation.Rule { return h.Integer().Min(0) },
		"newsletter":     func(h validation.Helper) *validation.Rule { return h.Boolean() },
		"contact.weight": func(h validation.Helper) *validation.Rule { return h.Number() },
		"nickname":       func(h validation.Helper) *validation.Rule { return h.String() },
	})

	result, err := schema.Validate(context.Background(), form.Values{
		"age":        "42",
		"newsletter": "on",
		"contact":    map[string]any{"weight": " 71.5 "},
		"untouched":  "x",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Failed() {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	want := form.Values{
		"age":        42.0,
		"newsletter": true,
		"contact":    map[string]any{"weight": 71.5},
		"untouched":  "x",
	}
	if diff := cmp.Diff(want, result.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateWithoutCoercion(t *testing.T) {
	builder := validation.NewSchemaBuilder(validation.WithoutCoercion())
	builder.Register("age", validation.For(func(h validation.Helper) *validation.Rule { return h.Number() }))
	schema, err := builder.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	result, err := schema.Validate(context.Background(), form.Values{"age": "42"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Failed() || result.Errors[0].Key != "type" {
		t.Fatalf("expected a type error, got %+v", result.Errors)
	}
}

func TestValidateCodeOverride(t *testing.T) {
	schema := buildSchema(t, map[string]func(validation.Helper) *validation.Rule{
		"email": func(h validation.Helper) *validation.Rule {
			return h.String().Required().Pattern(`^[^@]+@[^@]+$`).WithCode("email")
		},
	})
	for _, value := range []any{"nope", ""} {
		result, err := schema.Validate(context.Background(), form.Values{"email": value})
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		want := []form.ValidationError{{Key: "email", FieldPath: "email"}}
		if diff := cmp.Diff(want, result.Errors, ignoreMeta); diff != "" {
			t.Fatalf("errors mismatch for %q (-want +got):\n%s", value, diff)
		}
	}
}

func TestValidateNestedObject(t *testing.T) {
	schema := buildSchema(t, map[string]func(validation.Helper) *validation.Rule{
		"address": func(h validation.Helper) *validation.Rule {
			return h.Object().Property("city", h.String().Required())
		},
	})
	result, err := schema.Validate(context.Background(), form.Values{
		"address": map[string]any{"street": "Main"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := []form.ValidationError{{Key: "required", FieldPath: "address.city"}}
	if diff := cmp.Diff(want, result.Errors, ignoreMeta); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionalEmptyValuesAreSkipped(t *testing.T) {
	schema := buildSchema(t, map[string]func(validation.Helper) *validation.Rule{
		"nickname": func(h validation.Helper) *validation.Rule { return h.String().MinLength(3) },
	})
	result, err := schema.Validate(context.Background(), form.Values{"nickname": ""})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Failed() {
		t.Fatalf("optional empty value must pass, got %+v", result.Errors)
	}
}

func TestBuildRejectsForeignRules(t *testing.T) {
	builder := validation.NewSchemaBuilder()
	builder.Register("name", func(form.ValidationHelper) form.ValidationRule { return "required" })
	if _, err := builder.Schema(); !errors.Is(err, validation.ErrUnsupportedRule) {
		t.Fatalf("expected ErrUnsupportedRule, got %v", err)
	}
}

func TestBuildRejectsBadPattern(t *testing.T) {
	builder := validation.NewSchemaBuilder()
	builder.Register("name", validation.For(func(h validation.Helper) *validation.Rule {
		return h.String().Pattern("(")
	}))
	if _, err := builder.Schema(); err == nil {
		t.Fatalf("expected a build error for an invalid pattern")
	}
}

func TestBuildSkipsNilRules(t *testing.T) {
	builder := validation.NewSchemaBuilder()
	builder.Register("name", validation.For(func(validation.Helper) *validation.Rule { return nil }))
	schema, err := builder.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if got := schema.(*validation.Schema).Paths(); len(got) != 0 {
		t.Fatalf("expected no compiled fields, got %v", got)
	}
}

func TestRequiredAutoRule(t *testing.T) {
	helper := validation.Helper{}

	if got := validation.RequiredAutoRule(helper, form.ElementModel{}, nil); got != nil {
		t.Fatalf("optional field without rule must stay nil, got %v", got)
	}

	got, ok := validation.RequiredAutoRule(helper, form.ElementModel{Required: true}, nil).(*validation.Rule)
	if !ok || !got.IsRequired || got.Kind != validation.KindAny {
		t.Fatalf("expected a required any-rule, got %#v", got)
	}

	explicit := helper.String().MinLength(2)
	refined := validation.RequiredAutoRule(helper, form.ElementModel{Required: true}, explicit).(*validation.Rule)
	if !refined.IsRequired {
		t.Fatalf("expected explicit rule to become required")
	}
	if explicit.IsRequired {
		t.Fatalf("auto rule must not mutate the explicit rule")
	}
}
