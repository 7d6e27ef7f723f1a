package form

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
)

// ErrNoFieldName is returned when binding an element without a name.
var ErrNoFieldName = errors.New("form: field name is required")

var mountSeq atomic.Uint64

type helptextMode int

const (
	helptextInherit helptextMode = iota
	helptextOn
	helptextLiteral
)

// HelptextOption is the per-field help text switch. The zero value inherits
// the context default.
type HelptextOption struct {
	mode    helptextMode
	literal string
}

// HelptextOn shows the translated help text derived from the field name.
func HelptextOn() HelptextOption {
	return HelptextOption{mode: helptextOn}
}

// HelptextInherit leaves the decision to the context default, as the zero
// value does. Help text cannot be forced off when the context enables it.
func HelptextInherit() HelptextOption {
	return HelptextOption{mode: helptextInherit}
}

// HelptextText shows text verbatim.
func HelptextText(text string) HelptextOption {
	return HelptextOption{mode: helptextLiteral, literal: text}
}

// ElementProps are the inputs of a field binding.
type ElementProps struct {
	// Name is the field name local to the binding's context.
	Name string
	// Label replaces the translated label when non-empty.
	Label    string
	Rule     RuleBuilder
	Helptext HelptextOption
	Required bool
}

// ElementModel is a snapshot of the derived display attributes of a bound
// field. Empty Helptext or Error means none.
type ElementModel struct {
	Path       string `json:"path"`
	Identifier string `json:"identifier"`
	Label      string `json:"label"`
	Helptext   string `json:"helptext,omitempty"`
	Error      string `json:"error,omitempty"`
	Required   bool   `json:"required"`
	Value      any    `json:"value"`
}

// Element binds one rendered field to the nearest form context. It is owned
// by a single host component and is not safe for concurrent use.
type Element struct {
	tag        uint64
	fc         *Context
	props      ElementProps
	field      Field
	path       string
	identifier string
	label      string
	helptext   string
	unregister func()
	mounted    bool
}

// Mount binds a field to the nearest context provided on ctx.
func Mount(ctx context.Context, props ElementProps) (*Element, error) {
	fc, err := Use(ctx)
	if err != nil {
		return nil, err
	}
	return Bind(fc, props)
}

// Bind binds a field to fc and computes its attributes.
func Bind(fc *Context, props ElementProps) (*Element, error) {
	if fc == nil {
		return nil, configErr("bind element", ErrNoContext)
	}
	if props.Name == "" {
		return nil, ErrNoFieldName
	}
	e := &Element{
		tag:     mountSeq.Add(1),
		fc:      fc,
		props:   props,
		mounted: true,
	}
	e.recompute()
	return e, nil
}

// SetName rebinds the element to another field name.
func (e *Element) SetName(name string) {
	if name == "" || name == e.props.Name {
		return
	}
	e.props.Name = name
	e.recompute()
}

// SetContext rebinds the element to another context, e.g. after the
// enclosing region derived a new one.
func (e *Element) SetContext(fc *Context) {
	if fc == nil || fc == e.fc {
		return
	}
	e.fc = fc
	e.recompute()
}

// SetProps replaces every prop at once and recomputes.
func (e *Element) SetProps(props ElementProps) {
	if props.Name == "" {
		props.Name = e.props.Name
	}
	e.props = props
	e.recompute()
}

// Unmount releases the rule registration. Later triggers are ignored.
func (e *Element) Unmount() {
	if !e.mounted {
		return
	}
	e.mounted = false
	e.releaseRule()
}

func (e *Element) recompute() {
	if !e.mounted {
		return
	}
	fc, name := e.fc, e.props.Name

	e.path = fc.FieldPath(name)
	e.field = fc.Form().Field(e.path)
	e.identifier = strconv.FormatUint(e.tag, 10) + "$" + fc.Identifier(e.path)

	if e.props.Label != "" {
		e.label = e.props.Label
	} else {
		e.label = fc.Translate(fc.LabelKey(name))
	}
	e.helptext = e.resolveHelptext()
	e.registerRule()
}

func (e *Element) resolveHelptext() string {
	opt := e.props.Helptext
	switch {
	case opt.mode == helptextLiteral:
		return opt.literal
	case opt.mode == helptextOn, e.fc.DefaultEnableHelptext():
		return e.fc.Translate(e.fc.HelptextKey(e.props.Name))
	default:
		return ""
	}
}

func (e *Element) registerRule() {
	e.releaseRule()

	rule, auto := e.props.Rule, e.fc.AutoRule()
	if rule == nil && auto == nil {
		return
	}
	e.unregister = e.fc.RegisterRule(e.path, func(helper ValidationHelper) ValidationRule {
		var current ValidationRule
		if rule != nil {
			current = rule(helper)
		}
		if auto != nil {
			current = auto(helper, e.Model(), current)
		}
		return current
	})
}

func (e *Element) releaseRule() {
	if e.unregister != nil {
		e.unregister()
		e.unregister = nil
	}
}

// Model snapshots the element's derived attributes together with the live
// value and error of its field.
func (e *Element) Model() ElementModel {
	return ElementModel{
		Path:       e.path,
		Identifier: e.identifier,
		Label:      e.label,
		Helptext:   e.helptext,
		Error:      e.field.ErrorCode(),
		Required:   e.props.Required,
		Value:      e.field.Value(),
	}
}

// Context returns the context the element is bound to.
func (e *Element) Context() *Context { return e.fc }

// Name returns the local field name.
func (e *Element) Name() string { return e.props.Name }

// Path returns the resolved field path.
func (e *Element) Path() string { return e.path }

// Identifier returns the DOM-unique identifier of this mount.
func (e *Element) Identifier() string { return e.identifier }

// Label returns the display label.
func (e *Element) Label() string { return e.label }

// Helptext returns the display help text, empty when hidden.
func (e *Element) Helptext() string { return e.helptext }

// Required reports the required prop.
func (e *Element) Required() bool { return e.props.Required }

// Field returns the underlying field handle.
func (e *Element) Field() Field { return e.field }

// Value returns the field's current value.
func (e *Element) Value() any { return e.field.Value() }

// SetValue writes the field's current value.
func (e *Element) SetValue(value any) { e.field.SetValue(value) }

// ErrorCode returns the field's error code, empty when valid.
func (e *Element) ErrorCode() string { return e.field.ErrorCode() }

// Store commits this field's value as its baseline.
func (e *Element) Store() { e.field.Store() }

// Reset reverts this field to its baseline.
func (e *Element) Reset() { e.field.Reset() }
