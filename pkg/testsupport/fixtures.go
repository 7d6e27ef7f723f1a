package testsupport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formmodel"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// NopSubmit is a submit handler that accepts everything.
func NopSubmit(context.Context, form.Values, form.Model) error {
	return nil
}

// MustContext creates a root context backed by a formmodel.Model. A nil
// plugin uses a zero-configured one; a nil submit handler uses NopSubmit.
func MustContext(t *testing.T, plugin *form.Plugin, opts form.Options) *form.Context {
	t.Helper()

	if plugin == nil {
		plugin = form.NewPlugin()
	}
	if opts.FormModelFactory == nil {
		opts.FormModelFactory = formmodel.Factory()
	}
	if opts.Submit == nil {
		opts.Submit = NopSubmit
	}
	fc, err := plugin.NewContext(opts)
	if err != nil {
		t.Fatalf("new form context: %v", err)
	}
	return fc
}

// MustBind binds an element and fails the test on error.
func MustBind(t *testing.T, fc *form.Context, props form.ElementProps) *form.Element {
	t.Helper()

	el, err := form.Bind(fc, props)
	if err != nil {
		t.Fatalf("bind %q: %v", props.Name, err)
	}
	return el
}

// StubTranslator resolves keys from a fixed map, ignoring the locale.
type StubTranslator map[string]string

// ErrStubMissing is returned by StubTranslator for unknown keys.
var ErrStubMissing = errors.New("testsupport: missing translation")

// Translate implements i18n.Translator.
func (t StubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", ErrStubMissing
}

// StaticSchema returns a fixed result and counts its calls.
type StaticSchema struct {
	mu     sync.Mutex
	Errors []form.ValidationError
	Values form.Values
	Err    error
	calls  int
}

var _ form.Schema = (*StaticSchema)(nil)

// Validate implements form.Schema. Without configured Values the input is
// echoed back.
func (s *StaticSchema) Validate(_ context.Context, values form.Values) (form.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.Err != nil {
		return form.ValidationResult{}, s.Err
	}
	if len(s.Errors) > 0 {
		return form.Invalid(s.Errors...), nil
	}
	if s.Values != nil {
		return form.Valid(s.Values), nil
	}
	return form.Valid(values), nil
}

// Calls reports how often Validate ran.
func (s *StaticSchema) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Registration is one Register or Unregister call.
type Registration struct {
	Op   string
	Path string
}

// RecordingSchemaBuilder records registry traffic and serves Schema.
type RecordingSchemaBuilder struct {
	mu     sync.Mutex
	Static *StaticSchema
	calls  []Registration
	rules  map[string]form.RuleBuilder
}

var _ form.SchemaBuilder = (*RecordingSchemaBuilder)(nil)

// NewRecordingSchemaBuilder wraps schema; nil accepts everything.
func NewRecordingSchemaBuilder(schema *StaticSchema) *RecordingSchemaBuilder {
	if schema == nil {
		schema = &StaticSchema{}
	}
	return &RecordingSchemaBuilder{Static: schema, rules: make(map[string]form.RuleBuilder)}
}

// Factory returns a form.SchemaBuilderFactory that always yields b.
func (b *RecordingSchemaBuilder) Factory() form.SchemaBuilderFactory {
	return func() form.SchemaBuilder { return b }
}

// Register implements form.SchemaBuilder.
func (b *RecordingSchemaBuilder) Register(fieldPath string, builder form.RuleBuilder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Registration{Op: "register", Path: fieldPath})
	b.rules[fieldPath] = builder
}

// Unregister implements form.SchemaBuilder.
func (b *RecordingSchemaBuilder) Unregister(fieldPath string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Registration{Op: "unregister", Path: fieldPath})
	delete(b.rules, fieldPath)
}

// Schema implements form.SchemaBuilder.
func (b *RecordingSchemaBuilder) Schema() (form.Schema, error) {
	return b.Static, nil
}

// Calls returns the recorded registry traffic.
func (b *RecordingSchemaBuilder) Calls() []Registration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Registration(nil), b.calls...)
}

// Rule applies the builder registered at fieldPath to helper.
func (b *RecordingSchemaBuilder) Rule(fieldPath string, helper form.ValidationHelper) form.ValidationRule {
	b.mu.Lock()
	builder := b.rules[fieldPath]
	b.mu.Unlock()
	if builder == nil {
		return nil
	}
	return builder(helper)
}
