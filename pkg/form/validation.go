package form

import "context"

// ValidationHelper is whatever the plugged-in validation library hands to
// rule builders. The core never inspects it.
type ValidationHelper any

// ValidationRule is the opaque result of a rule builder.
type ValidationRule any

// RuleBuilder produces the rule for one field from the library helper.
type RuleBuilder func(helper ValidationHelper) ValidationRule

// AutoRule refines (or replaces) the rule of every bound field, even fields
// without an explicit rule. current is nil when the field declares no rule.
type AutoRule func(helper ValidationHelper, field ElementModel, current ValidationRule) ValidationRule

// ValidationError describes one failed field. Key is an error code that is
// translated by the host, not a display message.
type ValidationError struct {
	Key       string         `json:"key" yaml:"key"`
	FieldPath string         `json:"fieldPath" yaml:"fieldPath"`
	Meta      map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// ValidationResult is either a set of errors or the normalized values.
type ValidationResult struct {
	Errors []ValidationError
	Values Values
}

// Valid reports a successful validation carrying normalized values.
func Valid(values Values) ValidationResult {
	return ValidationResult{Values: values}
}

// Invalid reports a failed validation.
func Invalid(errs ...ValidationError) ValidationResult {
	return ValidationResult{Errors: errs}
}

// Failed reports whether the result carries errors.
func (r ValidationResult) Failed() bool {
	return len(r.Errors) > 0
}

// Schema validates a value tree. Returning an error means the validation
// itself failed; field errors belong in the result.
type Schema interface {
	Validate(ctx context.Context, values Values) (ValidationResult, error)
}

// SchemaFunc adapts a function to the Schema interface.
type SchemaFunc func(ctx context.Context, values Values) (ValidationResult, error)

// Validate implements Schema.
func (fn SchemaFunc) Validate(ctx context.Context, values Values) (ValidationResult, error) {
	return fn(ctx, values)
}

// SchemaBuilder collects rule builders per field path and produces the
// schema used on submit.
type SchemaBuilder interface {
	Register(fieldPath string, builder RuleBuilder)
	Unregister(fieldPath string)
	Schema() (Schema, error)
}

// SchemaBuilderFactory creates one SchemaBuilder per form context.
type SchemaBuilderFactory func() SchemaBuilder
