package validation

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Kind selects how a raw field value is coerced before validation.
type Kind string

const (
	KindAny     Kind = "any"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
)

// Rule is the validation rule of one field.
type Rule struct {
	Schema *openapi3.Schema
	Kind   Kind
	// IsRequired rejects missing, null and empty-string values.
	IsRequired bool
	// Code replaces the schema keyword as error key when set.
	Code string
}

// Helper is the ValidationHelper handed to rule builders.
type Helper struct{}

// Any accepts every value.
func (Helper) Any() *Rule {
	return &Rule{Schema: openapi3.NewSchema(), Kind: KindAny}
}

// String expects a string.
func (Helper) String() *Rule {
	return &Rule{Schema: openapi3.NewStringSchema(), Kind: KindString}
}

// Number expects a number; numeric strings are coerced.
func (Helper) Number() *Rule {
	return &Rule{Schema: openapi3.NewFloat64Schema(), Kind: KindNumber}
}

// Integer expects a whole number; numeric strings are coerced.
func (Helper) Integer() *Rule {
	return &Rule{Schema: openapi3.NewIntegerSchema(), Kind: KindInteger}
}

// Boolean expects a bool; "true", "false", "on" and "off" are coerced.
func (Helper) Boolean() *Rule {
	return &Rule{Schema: openapi3.NewBoolSchema(), Kind: KindBoolean}
}

// Object expects an object. Use Property to describe nested fields.
func (Helper) Object() *Rule {
	return &Rule{Schema: openapi3.NewObjectSchema(), Kind: KindObject}
}

// Array expects an array whose items match items.
func (Helper) Array(items *Rule) *Rule {
	schema := openapi3.NewArraySchema()
	if items != nil {
		schema.Items = openapi3.NewSchemaRef("", items.Schema)
	}
	return &Rule{Schema: schema, Kind: KindArray}
}

// FromSchema wraps an existing schema.
func (Helper) FromSchema(schema *openapi3.Schema, kind Kind) *Rule {
	if schema == nil {
		schema = openapi3.NewSchema()
	}
	if kind == "" {
		kind = KindAny
	}
	return &Rule{Schema: schema, Kind: kind}
}

// Required marks the field as required.
func (r *Rule) Required() *Rule {
	r.IsRequired = true
	return r
}

// MinLength sets the minimum string length.
func (r *Rule) MinLength(n int64) *Rule {
	r.Schema.WithMinLength(n)
	return r
}

// MaxLength sets the maximum string length.
func (r *Rule) MaxLength(n int64) *Rule {
	r.Schema.WithMaxLength(n)
	return r
}

// Pattern sets a regular expression the string must match.
func (r *Rule) Pattern(pattern string) *Rule {
	r.Schema.WithPattern(pattern)
	return r
}

// Min sets the inclusive minimum.
func (r *Rule) Min(value float64) *Rule {
	r.Schema.WithMin(value)
	return r
}

// Max sets the inclusive maximum.
func (r *Rule) Max(value float64) *Rule {
	r.Schema.WithMax(value)
	return r
}

// Enum restricts the value to the given options.
func (r *Rule) Enum(values ...any) *Rule {
	r.Schema.WithEnum(values...)
	return r
}

// Property adds a nested field to an object rule. Required nested rules are
// listed in the object's required keywords.
func (r *Rule) Property(name string, prop *Rule) *Rule {
	if prop == nil {
		return r
	}
	r.Schema.WithProperty(name, prop.Schema)
	if prop.IsRequired {
		r.Schema.Required = append(r.Schema.Required, name)
	}
	return r
}

// WithCode reports every failure of this rule under code.
func (r *Rule) WithCode(code string) *Rule {
	r.Code = code
	return r
}

// clone copies the rule header. The schema is shared.
func (r *Rule) clone() *Rule {
	out := *r
	return &out
}

// For adapts a typed builder to form.RuleBuilder.
func For(fn func(Helper) *Rule) form.RuleBuilder {
	return func(helper form.ValidationHelper) form.ValidationRule {
		h, _ := helper.(Helper)
		rule := fn(h)
		if rule == nil {
			return nil
		}
		return rule
	}
}

// RequiredAutoRule is a form.AutoRule marking every element bound with
// Required as required, adding an any-rule when the element has none.
func RequiredAutoRule(helper form.ValidationHelper, field form.ElementModel, current form.ValidationRule) form.ValidationRule {
	if !field.Required {
		return current
	}
	switch rule := current.(type) {
	case nil:
		h, _ := helper.(Helper)
		return h.Any().Required()
	case *Rule:
		out := rule.clone()
		out.IsRequired = true
		return out
	default:
		return current
	}
}
