package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/goliatone/go-formstate/pkg/form"
)

// CodeRequired is the error key of missing required values.
const CodeRequired = "required"

// ErrUnsupportedRule is returned when a registered builder yields something
// other than a *Rule.
var ErrUnsupportedRule = errors.New("validation: unsupported rule type")

type options struct {
	coerce bool
}

// Option customises the compiled schema.
type Option func(*options)

// WithoutCoercion validates raw values as submitted.
func WithoutCoercion() Option {
	return func(o *options) {
		o.coerce = false
	}
}

// NewSchemaBuilder returns a registry compiling kin-openapi rules.
func NewSchemaBuilder(opts ...Option) *form.GenericSchemaBuilder {
	return form.NewGenericSchemaBuilder(Helper{}, NewBuildFunc(opts...))
}

// Factory returns a form.SchemaBuilderFactory for NewSchemaBuilder.
func Factory(opts ...Option) form.SchemaBuilderFactory {
	return func() form.SchemaBuilder {
		return NewSchemaBuilder(opts...)
	}
}

// NewBuildFunc compiles a rule set into a Schema.
func NewBuildFunc(opts ...Option) form.BuildFunc {
	cfg := options{coerce: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return func(rules form.RuleSet) (form.Schema, error) {
		schema, err := compile(rules, cfg)
		if err != nil {
			return nil, err
		}
		return schema, nil
	}
}

type fieldRule struct {
	path string
	rule *Rule
}

// Schema validates form values against the compiled field rules.
type Schema struct {
	fields []fieldRule
	coerce bool
}

var _ form.Schema = (*Schema)(nil)

func compile(rules form.RuleSet, cfg options) (*Schema, error) {
	out := &Schema{coerce: cfg.coerce}
	for _, path := range rules.Paths() {
		raw := rules.Rule(path)
		if raw == nil {
			continue
		}
		rule, ok := raw.(*Rule)
		if !ok {
			return nil, fmt.Errorf("%w: %q has %T", ErrUnsupportedRule, path, raw)
		}
		if rule.Schema == nil {
			rule = rule.clone()
			rule.Schema = openapi3.NewSchema()
		}
		if err := rule.Schema.Validate(context.Background()); err != nil {
			return nil, fmt.Errorf("validation: rule %q: %w", path, err)
		}
		out.fields = append(out.fields, fieldRule{path: path, rule: rule})
	}
	return out, nil
}

// Paths lists the validated field paths in order.
func (s *Schema) Paths() []string {
	paths := make([]string, len(s.fields))
	for i, f := range s.fields {
		paths[i] = f.path
	}
	return paths
}

// Validate checks every field in path order. Coerced values are written back
// into the returned values.
func (s *Schema) Validate(ctx context.Context, values form.Values) (form.ValidationResult, error) {
	if values == nil {
		values = form.Values{}
	}
	doc, err := json.Marshal(values)
	if err != nil {
		return form.ValidationResult{}, fmt.Errorf("validation: encode values: %w", err)
	}

	var errs []form.ValidationError
	for _, f := range s.fields {
		if err := ctx.Err(); err != nil {
			return form.ValidationResult{}, err
		}
		path := escapePath(f.path)
		result := gjson.GetBytes(doc, path)
		if isEmpty(result) {
			if f.rule.IsRequired {
				errs = append(errs, f.rule.fail(f.path, CodeRequired, nil))
			}
			continue
		}

		value := result.Value()
		if s.coerce {
			if coerced, changed := coerce(f.rule.Kind, value); changed {
				value = coerced
				doc, err = sjson.SetBytes(doc, path, coerced)
				if err != nil {
					return form.ValidationResult{}, fmt.Errorf("validation: write %q: %w", f.path, err)
				}
			}
		}

		if err := f.rule.Schema.VisitJSON(value); err != nil {
			verr, ok := fromSchemaError(f.path, f.rule, err)
			if !ok {
				return form.ValidationResult{}, fmt.Errorf("validation: %q: %w", f.path, err)
			}
			errs = append(errs, verr)
		}
	}
	if len(errs) > 0 {
		return form.Invalid(errs...), nil
	}

	normalized := form.Values{}
	if err := json.Unmarshal(doc, &normalized); err != nil {
		return form.ValidationResult{}, fmt.Errorf("validation: decode values: %w", err)
	}
	return form.Valid(normalized), nil
}

func (r *Rule) fail(fieldPath, key string, meta map[string]any) form.ValidationError {
	if r.Code != "" {
		key = r.Code
	}
	return form.ValidationError{Key: key, FieldPath: fieldPath, Meta: meta}
}

func fromSchemaError(fieldPath string, rule *Rule, err error) (form.ValidationError, bool) {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return form.ValidationError{}, false
	}
	if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
		fieldPath = fieldPath + "." + strings.Join(pointer, ".")
	}
	meta := map[string]any{}
	if reason := strings.TrimSpace(schemaErr.Reason); reason != "" {
		meta["reason"] = reason
	}
	key := schemaErr.SchemaField
	if key == "" {
		key = "invalid"
	}
	return rule.fail(fieldPath, key, meta), true
}

func isEmpty(result gjson.Result) bool {
	if !result.Exists() {
		return true
	}
	switch result.Type {
	case gjson.Null:
		return true
	case gjson.String:
		return result.Str == ""
	default:
		return false
	}
}

func escapePath(fieldPath string) string {
	if !strings.ContainsAny(fieldPath, `*?|#@\`) {
		return fieldPath
	}
	var b strings.Builder
	for _, r := range fieldPath {
		if strings.ContainsRune(`*?|#@\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
