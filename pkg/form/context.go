package form

import (
	"log/slog"

	"github.com/google/uuid"
)

// Options describe one form instance. Values and Submit are required in
// spirit; nil Values start an empty form.
type Options struct {
	Values Values
	Submit SubmitHandler
	// I18nBase namespaces every derived translation key.
	I18nBase string
	// DefaultEnableHelptext overrides the plugin default when non-nil.
	DefaultEnableHelptext *bool
	// FormModelFactory overrides the plugin default model factory.
	FormModelFactory ModelFactory
	// SchemaBuilderFactory overrides the plugin default validation factory.
	SchemaBuilderFactory SchemaBuilderFactory
	// AutoRule overrides the plugin default auto rule.
	AutoRule AutoRule
}

// UpdateOptions narrow an inherited context for a subtree.
type UpdateOptions struct {
	// Subkey prefixes field paths and nests the key namespace below the
	// parent's translation key for the subkey.
	Subkey string
	// I18nBase replaces the key namespace. It never affects field paths.
	I18nBase string
	// DefaultEnableHelptext overrides the inherited default when non-nil.
	DefaultEnableHelptext *bool
}

// Bool returns a pointer to v, handy for the optional flags of Options and
// UpdateOptions.
func Bool(v bool) *bool {
	return &v
}

// Context is the composed form state for one form or sub-region. It is never
// mutated after construction; Derive returns a new value sharing the model,
// the validation registry and the submit pipeline.
type Context struct {
	handle                uuid.UUID
	cfg                   *config
	form                  Model
	schemas               SchemaBuilder
	autoRule              AutoRule
	defaultEnableHelptext bool
	keys                  keyDeriver
	prefix                string
	pipeline              *pipeline
	logger                *slog.Logger
}

// NewContext creates a root context from the installed default plugin.
func NewContext(opts Options) (*Context, error) {
	return Default().NewContext(opts)
}

// NewContext resolves the model and validation factories, initializes the
// model with opts.Values and assembles a root context.
func (p *Plugin) NewContext(opts Options) (*Context, error) {
	cfg := p.config()
	if opts.Submit == nil {
		return nil, configErr("create context", ErrNoSubmitHandler)
	}

	modelFactory := opts.FormModelFactory
	if modelFactory == nil {
		modelFactory = cfg.modelFactory
	}
	if modelFactory == nil {
		return nil, configErr("create context", ErrNoFormModel)
	}

	schemaFactory := opts.SchemaBuilderFactory
	if schemaFactory == nil {
		schemaFactory = cfg.schemaFactory
	}
	var schemas SchemaBuilder
	if schemaFactory != nil {
		schemas = schemaFactory()
	}

	autoRule := opts.AutoRule
	if autoRule == nil {
		autoRule = cfg.autoRule
	}

	model := modelFactory()
	if model == nil {
		return nil, configErr("create context", ErrNoFormModel)
	}
	values := opts.Values
	if values == nil {
		values = Values{}
	}
	if err := model.Initialize(values); err != nil {
		return nil, configErr("initialize form model", err)
	}

	enableHelptext := cfg.defaultEnableHelptext
	if opts.DefaultEnableHelptext != nil {
		enableHelptext = *opts.DefaultEnableHelptext
	}

	fc := &Context{
		handle:                uuid.New(),
		cfg:                   cfg,
		form:                  model,
		schemas:               schemas,
		autoRule:              autoRule,
		defaultEnableHelptext: enableHelptext,
		keys:                  newKeyDeriver(opts.I18nBase, cfg),
		pipeline:              newPipeline(opts.Submit, cfg.logger),
		logger:                cfg.logger,
	}
	fc.logger.Debug("form context created",
		slog.String("handle", fc.handle.String()),
		slog.String("i18n_base", opts.I18nBase),
		slog.Bool("validation", schemas != nil),
	)
	return fc, nil
}

// Derive returns a child context for a subtree. With a Subkey the child
// prefixes field paths with the parent's path for the subkey and namespaces
// keys below the parent's translation key for it. An I18nBase replaces the
// key namespace only. The parent is left untouched.
func (c *Context) Derive(opts UpdateOptions) *Context {
	child := *c
	if opts.Subkey != "" {
		child.prefix = c.FieldPath(opts.Subkey)
		child.keys = newKeyDeriver(c.TranslationKey(opts.Subkey), c.cfg)
	}
	if opts.I18nBase != "" {
		child.keys = newKeyDeriver(opts.I18nBase, c.cfg)
	}
	if opts.DefaultEnableHelptext != nil {
		child.defaultEnableHelptext = *opts.DefaultEnableHelptext
	}
	c.logger.Debug("form context derived",
		slog.String("handle", c.handle.String()),
		slog.String("subkey", opts.Subkey),
		slog.String("i18n_base", opts.I18nBase),
	)
	return &child
}

// Handle identifies the form instance. Derived contexts share it.
func (c *Context) Handle() uuid.UUID {
	return c.handle
}

// Form returns the model shared by the whole context tree.
func (c *Context) Form() Model {
	return c.form
}

// FieldPath resolves a local field name against this context.
func (c *Context) FieldPath(name string) string {
	if c.prefix == "" {
		return name
	}
	return c.prefix + "." + name
}

// Identifier turns a field path into a DOM-safe fragment (see Identifier).
func (c *Context) Identifier(fieldPath string) string {
	return Identifier(fieldPath)
}

// TranslationKey namespaces key for this context.
func (c *Context) TranslationKey(key string) string {
	return c.keys.translationKey(key)
}

// LabelKey derives the label translation key for key.
func (c *Context) LabelKey(key string) string {
	return c.keys.labelKey(key)
}

// HelptextKey derives the help text translation key for key.
func (c *Context) HelptextKey(key string) string {
	return c.keys.helptextKey(key)
}

// Translate resolves a key to display text; identity when the plugin has no
// translate function.
func (c *Context) Translate(key string) string {
	return translateWith(c.cfg.translate, key)
}

// DefaultEnableHelptext reports whether fields show derived help text unless
// they decide otherwise.
func (c *Context) DefaultEnableHelptext() bool {
	return c.defaultEnableHelptext
}

// AutoRule returns the rule refiner applied to bound fields, if any.
func (c *Context) AutoRule() AutoRule {
	return c.autoRule
}

// Validates reports whether a schema builder is configured.
func (c *Context) Validates() bool {
	return c.schemas != nil
}

// RegisterRule stores builder for fieldPath in the shared registry and
// returns the matching unregister function. Without validation both are
// no-ops.
func (c *Context) RegisterRule(fieldPath string, builder RuleBuilder) func() {
	if c.schemas == nil {
		return func() {}
	}
	c.schemas.Register(fieldPath, builder)
	return func() {
		c.schemas.Unregister(fieldPath)
	}
}

// Reset reverts the model to its committed baseline.
func (c *Context) Reset() {
	c.form.Reset()
}
