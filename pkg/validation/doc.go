// Package validation plugs kin-openapi schemas into the form validation
// registry. Rule builders receive a Helper and return a *Rule wrapping an
// openapi3.Schema for one field; Build compiles the registered rules into a
// form.Schema that checks each field with VisitJSON and reports failures as
// form.ValidationError values keyed by the failing schema keyword
// ("required", "minLength", "pattern", ...).
//
//	el, _ := form.Bind(fc, form.ElementProps{
//		Name: "email",
//		Rule: validation.For(func(h validation.Helper) *validation.Rule {
//			return h.String().Required().Pattern(`^[^@]+@[^@]+$`).WithCode("email")
//		}),
//	})
//
// Form inputs arrive as strings, so number, integer and boolean rules coerce
// string values before validation and the normalized values are handed to
// the submit handler.
package validation
