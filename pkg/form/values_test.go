package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
)

func TestUnflatten(t *testing.T) {
	got, err := form.Unflatten(map[string]any{
		"name":          "required",
		"contact.email": "format",
		"contact.phone": "required",
		"a.b.c":         1,
	})
	if err != nil {
		t.Fatalf("Unflatten: %v", err)
	}
	want := form.Values{
		"name": "required",
		"contact": map[string]any{
			"email": "format",
			"phone": "required",
		},
		"a": map[string]any{"b": map[string]any{"c": 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestUnflattenErrors(t *testing.T) {
	cases := []struct {
		name string
		flat map[string]any
		want error
	}{
		{name: "empty segment", flat: map[string]any{"a..b": 1}, want: form.ErrInvalidPath},
		{name: "trailing dot", flat: map[string]any{"a.": 1}, want: form.ErrInvalidPath},
		{name: "empty key", flat: map[string]any{"": 1}, want: form.ErrInvalidPath},
		{name: "crosses leaf", flat: map[string]any{"a": 1, "a.b": 2}, want: form.ErrPathConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := form.Unflatten(tc.flat); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	flat := map[string]any{"a.b": 1, "a.c": "x", "d": true}
	tree, err := form.Unflatten(flat)
	if err != nil {
		t.Fatalf("Unflatten: %v", err)
	}
	if diff := cmp.Diff(flat, form.Flatten(tree)); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	values := form.Values{"contact": map[string]any{"email": "a@b.c"}}
	if got, ok := form.Lookup(values, "contact.email"); !ok || got != "a@b.c" {
		t.Fatalf("Lookup = %v, %v", got, ok)
	}
	if _, ok := form.Lookup(values, "contact.email.x"); ok {
		t.Fatalf("lookup through a leaf must fail")
	}
	if _, ok := form.Lookup(values, ""); ok {
		t.Fatalf("empty path must fail")
	}
}

func TestDecode(t *testing.T) {
	type contact struct {
		Email string `json:"email"`
	}
	type user struct {
		Name    string  `json:"name"`
		Age     int     `json:"age"`
		Contact contact `json:"contact"`
	}
	got, err := form.Decode[user](form.Values{
		"name":    "Ada",
		"age":     36.0,
		"contact": map[string]any{"email": "ada@example.com"},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := user{Name: "Ada", Age: 36, Contact: contact{Email: "ada@example.com"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}
