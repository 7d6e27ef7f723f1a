package httpform

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
)

// Form is one request-scoped form: its context and the inputs bound to it,
// in render order.
type Form struct {
	Context *form.Context
	Inputs  []render.Input
}

// BuildFunc creates the form for a request. It is called once per request
// so concurrent requests never share a model.
type BuildFunc func(r *http.Request) (*Form, error)

// Handler builds a net/http handler and panics when it cannot be configured.
func Handler(build BuildFunc, fns ...OptionFn) http.Handler {
	handler, err := NewHandler(build, fns...)
	if err != nil {
		panic(err)
	}
	return handler
}

// NewHandler builds a net/http handler serving the form returned by build.
// Without a registry it renders HTML with the vanilla renderer and JSON with
// render.JSONRenderer.
func NewHandler(build BuildFunc, fns ...OptionFn) (http.Handler, error) {
	if build == nil {
		return nil, ErrNoBuilder
	}
	opts := NewOptions(fns...)
	if opts.Registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			return nil, err
		}
		opts.Registry = registry
	}
	if !opts.Registry.Has(opts.Renderer) {
		return nil, fmt.Errorf("%w: %q", ErrNoRenderer, opts.Renderer)
	}
	return &handler{opts: opts, build: build}, nil
}

// DefaultRegistry returns a registry with the vanilla HTML renderer and the
// JSON renderer.
func DefaultRegistry() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("httpform: default renderer: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, fmt.Errorf("httpform: default renderer: %w", err)
	}
	if err := registry.Register(render.JSONRenderer{}); err != nil {
		return nil, fmt.Errorf("httpform: default renderer: %w", err)
	}
	return registry, nil
}

type handler struct {
	opts  Options
	build BuildFunc
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost:
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodPost}, ", "))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			h.fail(w, r, "guard", err, http.StatusForbidden)
			return
		}
	}

	f, err := h.build(r)
	if err != nil {
		h.fail(w, r, "build form", err, http.StatusInternalServerError)
		return
	}
	if f == nil || f.Context == nil {
		h.fail(w, r, "build form", form.ErrNoContext, http.StatusInternalServerError)
		return
	}

	options := h.renderOptions(r)
	status := http.StatusOK

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			h.fail(w, r, "parse form", StatusError{Code: http.StatusBadRequest, Err: err}, http.StatusBadRequest)
			return
		}
		if !h.validCSRF(r) {
			h.fail(w, r, "csrf", ErrCSRFToken, http.StatusForbidden)
			return
		}

		if r.PostForm.Get(h.opts.ResetParam) != "" {
			f.Context.Reset()
			f.Context.Form().ClearErrors()
		} else {
			applyValues(f.Inputs, r.PostForm)
			outcome, err := f.Context.Run(r.Context())
			var fieldErrs FieldErrors
			switch {
			case errors.As(err, &fieldErrs):
				mapping := render.MapErrorPayload(inputPaths(f.Inputs), fieldErrs)
				if err := f.Context.Form().SetErrors(mapping.ValidationErrors()); err != nil {
					h.fail(w, r, "set field errors", err, http.StatusInternalServerError)
					return
				}
				options.Errors = mergeFieldMessages(options.Errors, mapping.Fields)
				options.FormErrors = render.MergeFormErrors(options.FormErrors, mapping.Form...)
				status = http.StatusUnprocessableEntity
			case err != nil:
				h.fail(w, r, "submit", err, http.StatusInternalServerError)
				return
			case outcome == form.OutcomeInvalid:
				status = http.StatusUnprocessableEntity
			case outcome == form.OutcomeCommitted:
				http.Redirect(w, r, h.redirectTarget(r), http.StatusSeeOther)
				return
			}
		}
	}

	renderer, err := h.opts.Registry.ForContentType(h.opts.Renderer, acceptedTypes(r)...)
	if err != nil {
		h.fail(w, r, "select renderer", err, http.StatusNotAcceptable)
		return
	}
	output, err := renderer.Render(r.Context(), render.Snapshot(f.Context, f.Inputs...), options)
	if err != nil {
		h.fail(w, r, "render", err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(output); err != nil {
		h.opts.Logger.Warn("httpform: write response", slog.String("error", err.Error()))
	}
}

func (h *handler) renderOptions(r *http.Request) render.RenderOptions {
	var options render.RenderOptions
	if h.opts.RenderOptions != nil {
		options = h.opts.RenderOptions(r)
	}
	if options.Action == "" {
		options.Action = r.URL.Path
	}
	if h.opts.CSRFToken != nil {
		options.Hidden = render.MergeHiddenFields(options.Hidden, render.CSRFToken(h.opts.CSRFField, h.opts.CSRFToken(r)))
	}
	return options
}

func (h *handler) validCSRF(r *http.Request) bool {
	if h.opts.CSRFToken == nil {
		return true
	}
	want := h.opts.CSRFToken(r)
	got := r.PostForm.Get(h.opts.CSRFField)
	return want != "" && subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func (h *handler) redirectTarget(r *http.Request) string {
	if h.opts.Redirect != "" {
		return h.opts.Redirect
	}
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, op string, err error, fallback int) {
	code := statusCode(err, fallback)
	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.opts.Logger.Log(r.Context(), level, "httpform: "+op,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", code),
		slog.String("error", err.Error()),
	)
	http.Error(w, http.StatusText(code), code)
}

// applyValues copies submitted values into the bound elements. Checkboxes
// are true when present; other inputs keep their value when absent.
func applyValues(inputs []render.Input, values url.Values) {
	for _, input := range inputs {
		if input.Element == nil {
			continue
		}
		path := input.Element.Path()
		if input.Type == render.InputCheckbox {
			input.Element.SetValue(values.Has(path))
			continue
		}
		if !values.Has(path) {
			continue
		}
		input.Element.SetValue(values.Get(path))
	}
}

func inputPaths(inputs []render.Input) []string {
	paths := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if input.Element != nil {
			paths = append(paths, input.Element.Path())
		}
	}
	return paths
}

func mergeFieldMessages(base, extra map[string][]string) map[string][]string {
	if len(extra) == 0 {
		return base
	}
	out := make(map[string][]string, len(base)+len(extra))
	for path, messages := range base {
		out[path] = append([]string(nil), messages...)
	}
	for path, messages := range extra {
		out[path] = append(out[path], messages...)
	}
	return out
}

func acceptedTypes(r *http.Request) []string {
	header := r.Header.Get("Accept")
	if header == "" {
		return nil
	}
	return strings.Split(header, ",")
}
