package render_test

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formmodel"
	"github.com/goliatone/go-formstate/pkg/render"
)

func newForm(t *testing.T) (*form.Context, []render.Input) {
	t.Helper()
	plugin := form.NewPlugin(form.WithFormModelFactory(formmodel.Factory()))
	fc, err := plugin.NewContext(form.Options{
		Values: form.Values{"name": "Ada", "contact": map[string]any{"email": "ada@example.com"}},
		Submit: func(context.Context, form.Values, form.Model) error { return nil },
	})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	name, err := form.Bind(fc, form.ElementProps{Name: "name", Label: "Name", Required: true})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	email, err := form.Bind(fc.Derive(form.UpdateOptions{Subkey: "contact"}), form.ElementProps{Name: "email", Label: "Email"})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	return fc, []render.Input{
		{Element: name},
		{Element: email, Type: render.InputEmail, Placeholder: "you@example.com"},
		{},
	}
}

func TestSnapshot(t *testing.T) {
	fc, inputs := newForm(t)
	if err := fc.Form().SetErrors([]form.ValidationError{{Key: "format", FieldPath: "contact.email"}}); err != nil {
		t.Fatalf("SetErrors: %v", err)
	}

	snap := render.Snapshot(fc, inputs...)
	if snap.ID != fc.Handle().String() || snap.State != "idle" {
		t.Fatalf("unexpected header %q %q", snap.ID, snap.State)
	}
	if diff := cmp.Diff([]string{"name", "contact.email"}, snap.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if got := snap.Fields[0].Type; got != render.InputText {
		t.Fatalf("default type = %q", got)
	}
	email := snap.Fields[1]
	if email.Value != "ada@example.com" || email.Error != "format" || email.Placeholder != "you@example.com" {
		t.Fatalf("unexpected email field %+v", email)
	}
}

func TestFieldErrors(t *testing.T) {
	field := render.Field{ElementModel: form.ElementModel{Path: "email", Error: "format"}}

	if diff := cmp.Diff([]string{"format"}, render.RenderOptions{}.FieldErrors(field)); diff != "" {
		t.Fatalf("raw code mismatch (-want +got):\n%s", diff)
	}

	opts := render.RenderOptions{
		ErrorText: func(code string, _ form.ElementModel) string { return "errors." + code },
	}
	if diff := cmp.Diff([]string{"errors.format"}, opts.FieldErrors(field)); diff != "" {
		t.Fatalf("translated mismatch (-want +got):\n%s", diff)
	}

	opts.Errors = map[string][]string{"email": {" taken ", "taken"}}
	if diff := cmp.Diff([]string{"taken"}, opts.FieldErrors(field)); diff != "" {
		t.Fatalf("server messages mismatch (-want +got):\n%s", diff)
	}

	if got := opts.FieldErrors(render.Field{ElementModel: form.ElementModel{Path: "x"}}); got != nil {
		t.Fatalf("expected no messages, got %v", got)
	}
}

func TestJSONRenderer(t *testing.T) {
	fc, inputs := newForm(t)
	out, err := render.JSONRenderer{}.Render(context.Background(), render.Snapshot(fc, inputs...), render.RenderOptions{
		Action:     "/signup",
		FormErrors: []string{"try again"},
		Hidden:     map[string]string{"_csrf": "t"},
		Errors:     map[string][]string{"name": {"taken"}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var got struct {
		Method string            `json:"method"`
		Action string            `json:"action"`
		Errors []string          `json:"errors"`
		Hidden map[string]string `json:"hidden"`
		Fields []struct {
			Path     string   `json:"path"`
			Label    string   `json:"label"`
			Required bool     `json:"required"`
			Messages []string `json:"messages"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Method != "POST" || got.Action != "/signup" {
		t.Fatalf("unexpected method/action %q %q", got.Method, got.Action)
	}
	if diff := cmp.Diff([]string{"try again"}, got.Errors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if got.Hidden["_csrf"] != "t" {
		t.Fatalf("missing hidden field: %v", got.Hidden)
	}
	if len(got.Fields) != 2 || got.Fields[0].Label != "Name" || !got.Fields[0].Required {
		t.Fatalf("unexpected fields %+v", got.Fields)
	}
	if diff := cmp.Diff([]string{"taken"}, got.Fields[0].Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

type namedRenderer struct {
	render.JSONRenderer
	name, contentType string
}

func (r namedRenderer) Name() string        { return r.name }
func (r namedRenderer) ContentType() string { return r.contentType }

func TestJSONRendererFlatFields(t *testing.T) {
	snapshot := render.Form{Fields: []render.Field{
		{ElementModel: form.ElementModel{Path: "name", Label: "Name"}, Type: render.InputText},
		{ElementModel: form.ElementModel{Path: "age", Label: "Age", Value: 42.0}, Type: render.InputNumber},
		{
			ElementModel: form.ElementModel{Path: "plan", Label: "Plan", Value: "pro", Error: "required"},
			Type:         render.InputSelect,
			Choices:      []render.Choice{{Value: "pro", Label: "Pro"}},
		},
	}}

	out, err := render.JSONRenderer{}.Render(context.Background(), snapshot, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var got struct {
		Fields []map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []map[string]any{
		{"path": "name", "identifier": "", "type": "text", "label": "Name", "required": false, "value": nil},
		{"path": "age", "identifier": "", "type": "number", "label": "Age", "required": false, "value": 42.0},
		{
			"path": "plan", "identifier": "", "type": "select", "label": "Plan", "required": false,
			"value": "pro", "error": "required", "messages": []any{"required"},
			"choices": []any{map[string]any{"value": "pro", "label": "Pro"}},
		},
	}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldMarshalJSON(t *testing.T) {
	field := render.Field{ElementModel: form.ElementModel{Path: "email", Label: "Email"}, Type: render.InputEmail}
	out, err := json.Marshal(render.Form{ID: "f", Fields: []render.Field{field}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"id":"f","state":"","fields":[{"path":"email","identifier":"","type":"email","label":"Email","required":false,"value":null}]}`
	if string(out) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", out, want)
	}
}

func TestRegistryForContentType(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer{name: "vanilla", contentType: "text/html; charset=utf-8"})
	registry.MustRegister(render.JSONRenderer{})

	if err := registry.Register(render.JSONRenderer{}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if diff := cmp.Diff([]string{"json", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	cases := []struct {
		accept []string
		want   string
	}{
		{accept: nil, want: "vanilla"},
		{accept: []string{"*/*"}, want: "vanilla"},
		{accept: []string{"application/json"}, want: "json"},
		{accept: []string{"text/html", "application/json;q=0.9"}, want: "vanilla"},
		{accept: []string{"image/png"}, want: "vanilla"},
	}
	for _, tc := range cases {
		got, err := registry.ForContentType("vanilla", tc.accept...)
		if err != nil {
			t.Fatalf("ForContentType(%v): %v", tc.accept, err)
		}
		if got.Name() != tc.want {
			t.Fatalf("ForContentType(%v) = %s, want %s", tc.accept, got.Name(), tc.want)
		}
	}

	if _, err := registry.ForContentType("missing"); err == nil {
		t.Fatalf("expected missing fallback error")
	}
}
