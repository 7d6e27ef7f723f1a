package form

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFormModel is reported when neither the context options nor the
	// plugin configuration provide a form model factory.
	ErrNoFormModel = errors.New("form: form model factory is not configured")
	// ErrNoContext is reported by Use when no form context was provided for
	// the current subtree.
	ErrNoContext = errors.New("form: no form context; create one in a parent scope")
	// ErrNoSubmitHandler is reported when a context is created without a
	// submit handler.
	ErrNoSubmitHandler = errors.New("form: submit handler is required")
	// ErrInvalidPath signals an empty segment in a dotted path.
	ErrInvalidPath = errors.New("form: invalid nullish or empty path segment")
	// ErrPathConflict signals a dotted path crossing a non-object value.
	ErrPathConflict = errors.New("form: path already contains a non-object value")
)

// ConfigurationError wraps setup failures. They are returned synchronously at
// context creation (or lookup) time and are never retried.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func configErr(op string, err error) error {
	return &ConfigurationError{Op: op, Err: err}
}
