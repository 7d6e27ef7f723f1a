package httpform

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrNoBuilder  = errors.New("httpform: form builder is required")
	ErrNoRenderer = errors.New("httpform: renderer is required")
	ErrCSRFToken  = errors.New("httpform: csrf token mismatch")
)

type HTTPError interface {
	error
	StatusCode() int
}

// StatusError attaches an HTTP status to an error returned by a guard, a
// builder or a submit handler.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// FieldErrors is returned by a submit handler to reject a submission with
// messages keyed by field path. Keys may use JSON pointer or bracket
// notation; unknown keys become form-level messages.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return "httpform: field errors: " + strings.Join(keys, ", ")
}

func statusCode(err error, fallback int) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if code := httpErr.StatusCode(); code > 0 {
			return code
		}
	}
	return fallback
}
