package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm    ChromeClass = "formstate-form"
	ClassField   ChromeClass = "formstate-field"
	ClassInvalid ChromeClass = "formstate-field--invalid"
	ClassHelp    ChromeClass = "formstate-help"
	ClassActions ChromeClass = "formstate-actions"
	ClassErrors  ChromeClass = "formstate-errors"
)

// Default*Class values are applied when WithClasses overrides are empty.
const (
	DefaultFormClass    = string(ClassForm)
	DefaultFieldClass   = string(ClassField)
	DefaultInvalidClass = string(ClassInvalid)
	DefaultHelpClass    = string(ClassHelp)
	DefaultActionsClass = string(ClassActions)
	DefaultErrorsClass  = string(ClassErrors)
)

// Classes overrides the chrome classes emitted by the default template.
type Classes struct {
	Form    string `json:"form"`
	Field   string `json:"field"`
	Invalid string `json:"invalid"`
	Help    string `json:"help"`
	Actions string `json:"actions"`
	Errors  string `json:"errors"`
}

func (c Classes) withDefaults() Classes {
	return Classes{
		Form:    classOr(c.Form, DefaultFormClass),
		Field:   classOr(c.Field, DefaultFieldClass),
		Invalid: classOr(c.Invalid, DefaultInvalidClass),
		Help:    classOr(c.Help, DefaultHelpClass),
		Actions: classOr(c.Actions, DefaultActionsClass),
		Errors:  classOr(c.Errors, DefaultErrorsClass),
	}
}

func classOr(value, fallback string) string {
	if cleaned := sanitizeClassList(value); cleaned != "" {
		return cleaned
	}
	return fallback
}
