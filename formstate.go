// Package formstate wires the form context core with the bundled adapters:
// the JSON form model, openapi validation, translation catalogs and the
// HTML, JSON and terminal renderers.
package formstate

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-formstate/pkg/config"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formmodel"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Values aliases form.Values for callers that only import the root package.
type Values = form.Values

// RenderOptions describes per-request data such as the locale, hidden fields
// or server-side errors.
type RenderOptions = render.RenderOptions

// Input aliases render.Input.
type Input = render.Input

// NewPlugin returns a plugin backed by the JSON form model with openapi
// validation and required-field rules. options are applied last.
func NewPlugin(options ...form.Option) *form.Plugin {
	base := []form.Option{
		form.WithFormModelFactory(formmodel.Factory()),
		form.WithSchemaBuilderFactory(validation.Factory()),
		form.WithAutoRule(validation.RequiredAutoRule),
	}
	return form.NewPlugin(append(base, options...)...)
}

// NewPluginFromConfig builds a plugin from a configuration file. Debug logs
// are written to logOutput at the configured level.
func NewPluginFromConfig(cfg config.File, logOutput io.Writer, options ...form.Option) (*form.Plugin, error) {
	opts, err := cfg.PluginOptions(logOutput)
	if err != nil {
		return nil, err
	}
	return form.NewPlugin(append(opts, options...)...), nil
}

// LoadPlugin reads the configuration at path, applies FORMSTATE_* environment
// overrides and installs the resulting plugin as the process default.
func LoadPlugin(path string, logOutput io.Writer) (*form.Plugin, config.File, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, cfg, err
	}
	plugin, err := NewPluginFromConfig(cfg, logOutput)
	if err != nil {
		return nil, cfg, err
	}
	form.Install(plugin)
	return plugin, cfg, nil
}

// NewRegistry returns a registry holding the vanilla HTML renderer and the
// JSON renderer.
func NewRegistry(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(render.JSONRenderer{}); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderHTML snapshots fc and renders it with the vanilla renderer. It is the
// simplest entry point for callers that just want HTML output.
func RenderHTML(ctx context.Context, fc *form.Context, options RenderOptions, inputs ...Input) ([]byte, error) {
	if fc == nil {
		return nil, form.ErrNoContext
	}
	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("formstate: %w", err)
	}
	return html.Render(ctx, render.Snapshot(fc, inputs...), options)
}
