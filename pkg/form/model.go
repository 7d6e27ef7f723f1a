package form

import "context"

// Field is the handle a Model returns for one field path: a mutable
// value/error cell plus store and reset scoped to that field. An empty error
// code means the field has no error.
type Field interface {
	Value() any
	SetValue(value any)
	ErrorCode() string
	SetErrorCode(code string)
	// Store makes the current value the field's baseline.
	Store()
	// Reset reverts the value to the field's baseline.
	Reset()
}

// Model owns the canonical field values and their committed baseline.
// Implementations must return the same Field for repeated lookups of one
// path during the model's lifetime.
type Model interface {
	Field(fieldPath string) Field
	Initialize(values Values) error
	Values() (Values, error)
	// SetErrors replaces all field errors. Paths are flat dotted paths; the
	// model expands them into whatever nested structure it keeps.
	SetErrors(errs []ValidationError) error
	ClearErrors()
	Store()
	Reset()
}

// ModelFactory creates the model backing one form context.
type ModelFactory func() Model

// SubmitHandler receives the (possibly normalized) values once validation
// passed. A returned error aborts the commit and is handed to the caller of
// Submit unchanged.
type SubmitHandler func(ctx context.Context, values Values, model Model) error
