package testsupport_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

func TestRecordingSchemaBuilder(t *testing.T) {
	schema := &testsupport.StaticSchema{Errors: []form.ValidationError{{Key: "required", FieldPath: "name"}}}
	builder := testsupport.NewRecordingSchemaBuilder(schema)
	fc := testsupport.MustContext(t, nil, form.Options{SchemaBuilderFactory: builder.Factory()})

	el := testsupport.MustBind(t, fc, form.ElementProps{
		Name: "name",
		Rule: func(form.ValidationHelper) form.ValidationRule { return "rule" },
	})
	if got := builder.Rule("name", nil); got != "rule" {
		t.Fatalf("Rule = %v", got)
	}
	el.SetName("fullname")
	el.Unmount()

	want := []testsupport.Registration{
		{Op: "register", Path: "name"},
		{Op: "unregister", Path: "name"},
		{Op: "register", Path: "fullname"},
		{Op: "unregister", Path: "fullname"},
	}
	if diff := cmp.Diff(want, builder.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}

	if err := fc.Submit(testsupport.Context()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if schema.Calls() != 1 {
		t.Fatalf("expected one validation, got %d", schema.Calls())
	}
}

func TestStubTranslator(t *testing.T) {
	tr := testsupport.StubTranslator{"a": "A"}
	if got, err := tr.Translate("en", "a"); err != nil || got != "A" {
		t.Fatalf("Translate = %q, %v", got, err)
	}
	if _, err := tr.Translate("en", "b"); !errors.Is(err, testsupport.ErrStubMissing) {
		t.Fatalf("expected ErrStubMissing, got %v", err)
	}
}
