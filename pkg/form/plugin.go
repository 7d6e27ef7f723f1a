package form

import (
	"io"
	"log/slog"
	"sync"
)

// TranslateFunc turns a translation key into display text.
type TranslateFunc func(key string) string

type config struct {
	modelFactory          ModelFactory
	schemaFactory         SchemaBuilderFactory
	labelKey              Transform
	helptextKey           Transform
	translate             TranslateFunc
	defaultEnableHelptext bool
	autoRule              AutoRule
	logger                *slog.Logger
}

// Option customises a Plugin.
type Option func(*config)

// WithFormModelFactory sets the default model factory for new contexts.
func WithFormModelFactory(factory ModelFactory) Option {
	return func(c *config) {
		c.modelFactory = factory
	}
}

// WithSchemaBuilderFactory enables validation for every context that does
// not bring its own factory.
func WithSchemaBuilderFactory(factory SchemaBuilderFactory) Option {
	return func(c *config) {
		c.schemaFactory = factory
	}
}

// WithLabelKey overrides how the last key segment becomes a label key.
func WithLabelKey(fn Transform) Option {
	return func(c *config) {
		if fn != nil {
			c.labelKey = fn
		}
	}
}

// WithHelptextKey overrides how the last key segment becomes a help text key.
func WithHelptextKey(fn Transform) Option {
	return func(c *config) {
		if fn != nil {
			c.helptextKey = fn
		}
	}
}

// WithTranslate installs the translation lookup. Key namespacing is only
// applied when a translate function is configured.
func WithTranslate(fn TranslateFunc) Option {
	return func(c *config) {
		c.translate = fn
	}
}

// WithDefaultEnableHelptext shows derived help text for fields that do not
// decide on their own.
func WithDefaultEnableHelptext(enabled bool) Option {
	return func(c *config) {
		c.defaultEnableHelptext = enabled
	}
}

// WithAutoRule registers a rule refiner applied to every bound field.
func WithAutoRule(fn AutoRule) Option {
	return func(c *config) {
		c.autoRule = fn
	}
}

// WithLogger sets the logger used for debug records. Logs are discarded when
// no logger is provided.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Plugin holds the configuration shared by every form context created from
// it. Contexts snapshot the plugin at creation time.
type Plugin struct {
	cfg config
}

// NewPlugin constructs a Plugin applying any provided options over the
// defaults ("label_"/"help_" key prefixes, help text disabled, no model
// factory, no validation, no translation).
func NewPlugin(options ...Option) *Plugin {
	cfg := config{
		labelKey:    DefaultLabelKey,
		helptextKey: DefaultHelptextKey,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Plugin{cfg: cfg}
}

// LabelKey applies the configured label transform to a single segment.
func (p *Plugin) LabelKey(key string) string {
	return p.config().labelKey(key)
}

// HelptextKey applies the configured help text transform to a single segment.
func (p *Plugin) HelptextKey(key string) string {
	return p.config().helptextKey(key)
}

// Translate resolves key through the configured translate function, or
// returns it unchanged when none is configured.
func (p *Plugin) Translate(key string) string {
	return translateWith(p.config().translate, key)
}

// DefaultEnableHelptext reports the plugin-wide help text default.
func (p *Plugin) DefaultEnableHelptext() bool {
	return p.config().defaultEnableHelptext
}

// Logger returns the plugin logger.
func (p *Plugin) Logger() *slog.Logger {
	return p.config().logger
}

func (p *Plugin) config() *config {
	if p == nil {
		return &NewPlugin().cfg
	}
	return &p.cfg
}

func translateWith(fn TranslateFunc, key string) string {
	if fn == nil {
		return key
	}
	return fn(key)
}

var (
	defaultMu     sync.RWMutex
	defaultPlugin *Plugin
)

// Install makes p the process-wide default used by the package-level
// NewContext and Create helpers.
func Install(p *Plugin) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultPlugin = p
}

// Default returns the installed plugin, or a zero-configured one when
// Install was never called.
func Default() *Plugin {
	defaultMu.RLock()
	p := defaultPlugin
	defaultMu.RUnlock()
	if p == nil {
		return NewPlugin()
	}
	return p
}
