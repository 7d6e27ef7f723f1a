package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formstate/pkg/render"
	rendertemplate "github.com/goliatone/go-formstate/pkg/render/template"
	gotemplate "github.com/goliatone/go-formstate/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	templateFuncs    map[string]any
	classes          Classes
	inlineStyles     bool
	submitLabel      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The
// bundle must provide templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTemplateFuncs registers helpers such as i18n.TemplateFuncs on the
// default engine. Ignored when WithTemplateRenderer is used.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFuncs == nil {
			cfg.templateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFuncs[name] = fn
		}
	}
}

// WithClasses overrides the chrome classes. Empty entries keep the defaults.
func WithClasses(classes Classes) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithInlineStyles embeds the bundled stylesheet in a <style> element ahead of
// the form.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// WithSubmitLabel sets the caption used when RenderOptions.SubmitLabel is
// empty.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label != "" {
			cfg.submitLabel = label
		}
	}
}

type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	classes     Classes
	stylesheet  string
	submitLabel string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitLabel: "Submit"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithTemplateFunc(cfg.templateFuncs),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	out := &Renderer{
		templates:   renderer,
		classes:     cfg.classes.withDefaults(),
		submitLabel: cfg.submitLabel,
	}
	if cfg.inlineStyles {
		out.stylesheet = defaultStylesheet()
	}
	return out, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, form render.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(FormTemplate, map[string]any{
		"form":   r.buildView(form, options),
		"locale": options.Locale,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type choiceView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder"`
	Value       string       `json:"value"`
	Checked     bool         `json:"checked"`
	Required    bool         `json:"required"`
	Helptext    string       `json:"helptext"`
	HelpID      string       `json:"help_id"`
	ErrorID     string       `json:"error_id"`
	DescribedBy string       `json:"described_by"`
	Errors      []string     `json:"errors"`
	Choices     []choiceView `json:"choices"`
}

type formView struct {
	ID          string       `json:"id"`
	State       string       `json:"state"`
	Action      string       `json:"action"`
	Method      string       `json:"method"`
	Classes     Classes      `json:"classes"`
	Hidden      []hiddenView `json:"hidden"`
	Errors      []string     `json:"errors"`
	Fields      []fieldView  `json:"fields"`
	SubmitLabel string       `json:"submit_label"`
	ResetLabel  string       `json:"reset_label"`
	Stylesheet  string       `json:"stylesheet"`
}

func (r *Renderer) buildView(form render.Form, options render.RenderOptions) formView {
	view := formView{
		ID:          form.ID,
		State:       form.State,
		Action:      options.Action,
		Method:      options.MethodOrDefault(),
		Classes:     r.classes,
		Hidden:      []hiddenView{},
		Errors:      append([]string{}, options.FormErrors...),
		Fields:      make([]fieldView, 0, len(form.Fields)),
		SubmitLabel: options.SubmitLabel,
		ResetLabel:  options.ResetLabel,
		Stylesheet:  r.stylesheet,
	}
	if view.SubmitLabel == "" {
		view.SubmitLabel = r.submitLabel
	}
	for _, hidden := range render.SortedHiddenFields(options.Hidden) {
		view.Hidden = append(view.Hidden, hiddenView{Name: hidden.Name, Value: hidden.Value})
	}
	for _, field := range form.Fields {
		view.Fields = append(view.Fields, buildFieldView(field, options.FieldErrors(field)))
	}
	return view
}

func buildFieldView(field render.Field, errs []string) fieldView {
	view := fieldView{
		ID:          field.Identifier,
		Name:        field.Path,
		Type:        field.Type,
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Value:       valueString(field.Value),
		Checked:     isChecked(field.Value),
		Required:    field.Required,
		Helptext:    sanitizeHelptext(field.Helptext),
		Errors:      append([]string{}, errs...),
		Choices:     []choiceView{},
	}
	if view.Type == "" {
		view.Type = render.InputText
	}

	var describedBy []string
	if view.Helptext != "" {
		view.HelpID = controlID(field.Identifier, "help")
		describedBy = append(describedBy, view.HelpID)
	}
	if len(errs) > 0 {
		view.ErrorID = controlID(field.Identifier, "error")
		describedBy = append(describedBy, view.ErrorID)
	}
	view.DescribedBy = joinIDs(describedBy)

	for _, choice := range field.Choices {
		view.Choices = append(view.Choices, choiceView{
			Value:    choice.Value,
			Label:    choice.Label,
			Selected: choice.Value == view.Value,
		})
	}
	return view
}
