// Package httpform serves a form context over net/http.
//
// GET renders the form through a render.Registry, picking the renderer from
// the Accept header. POST copies the submitted values into the bound
// elements and runs the submit pipeline: validation failures re-render the
// form with status 422 and a committed submit redirects with 303 See Other.
// A submit handler may return FieldErrors to report server-side problems
// against individual fields.
package httpform
