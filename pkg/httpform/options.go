package httpform

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-formstate/pkg/render"
)

const (
	DefaultRenderer     = "vanilla"
	DefaultResetParam   = "_reset"
	DefaultMaxBodyBytes = 1 << 20
	DefaultCSRFField    = "_csrf"
)

type GuardFunc func(r *http.Request) error

// CSRFTokenFunc returns the anti-forgery token expected for a request.
type CSRFTokenFunc func(r *http.Request) string

// RenderOptionsFunc supplies per-request render options such as the locale
// or a CSRF token.
type RenderOptionsFunc func(r *http.Request) render.RenderOptions

type Options struct {
	Registry      *render.Registry
	Renderer      string
	Guard         GuardFunc
	RenderOptions RenderOptionsFunc
	// Redirect is the 303 target after a committed submit. Defaults to the
	// request path.
	Redirect     string
	ResetParam   string
	MaxBodyBytes int64
	// CSRFToken, when set, is rendered as the CSRFField hidden input and
	// must match on every POST.
	CSRFField string
	CSRFToken CSRFTokenFunc
	Logger    *slog.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Renderer:     DefaultRenderer,
		ResetParam:   DefaultResetParam,
		MaxBodyBytes: DefaultMaxBodyBytes,
		CSRFField:    DefaultCSRFField,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Renderer == "" {
		opts.Renderer = DefaultRenderer
	}
	if opts.ResetParam == "" {
		opts.ResetParam = DefaultResetParam
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.CSRFField == "" {
		opts.CSRFField = DefaultCSRFField
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return opts
}

// WithRegistry sets the renderers used for content negotiation.
func WithRegistry(registry *render.Registry) OptionFn {
	return func(o *Options) {
		o.Registry = registry
	}
}

// WithRenderer names the renderer used when the Accept header does not
// select another one.
func WithRenderer(name string) OptionFn {
	return func(o *Options) {
		o.Renderer = name
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		o.Guard = guard
	}
}

func WithRenderOptions(fn RenderOptionsFunc) OptionFn {
	return func(o *Options) {
		o.RenderOptions = fn
	}
}

func WithRedirect(target string) OptionFn {
	return func(o *Options) {
		o.Redirect = target
	}
}

func WithResetParam(name string) OptionFn {
	return func(o *Options) {
		o.ResetParam = name
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		o.MaxBodyBytes = limit
	}
}

// WithCSRF renders token(r) as the hidden field named field and rejects POST
// requests that do not echo it back. An empty field uses DefaultCSRFField.
func WithCSRF(field string, token CSRFTokenFunc) OptionFn {
	return func(o *Options) {
		o.CSRFField = field
		o.CSRFToken = token
	}
}

// WithLogger sets the logger for request failures. Logs are discarded when
// unset.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		o.Logger = logger
	}
}
