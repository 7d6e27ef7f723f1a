package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/httpform"
	"github.com/goliatone/go-formstate/pkg/i18n"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
)

func main() {
	configPath := flag.String("config", "", "configuration file (YAML or JSON)")
	mode := flag.String("mode", "render", "render, tui or http")
	renderer := flag.String("renderer", "vanilla", "renderer used by -mode render")
	output := flag.String("output", "", "output file (stdout if empty)")
	fields := flag.String("fields", "", "comma separated path prefixes to render")
	templates := flag.String("templates", "", "directory overriding the embedded templates")
	flag.Parse()

	plugin, cfg, err := formstate.LoadPlugin(*configPath, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	var htmlOptions []vanilla.Option
	if *templates != "" {
		htmlOptions = append(htmlOptions, vanilla.WithTemplatesDir(*templates))
	}
	if catalog != nil {
		htmlOptions = append(htmlOptions, vanilla.WithTemplateFuncs(i18n.TemplateFuncs(catalog, i18n.TemplateConfig{})))
	}
	registry, err := formstate.NewRegistry(htmlOptions...)
	if err != nil {
		log.Fatalf("Failed to configure renderers: %v", err)
	}

	renderOptions := render.RenderOptions{
		Locale:     cfg.Locale,
		ErrorText:  errorText(catalog, cfg.Locale),
		ResetLabel: "Reset",
	}

	ctx := context.Background()
	switch *mode {
	case "render":
		signup, err := newSignupForm(plugin, cfg.I18nBase, printSubmit(os.Stdout))
		if err != nil {
			log.Fatalf("Failed to build form: %v", err)
		}
		r, err := registry.Get(*renderer)
		if err != nil {
			log.Fatalf("Failed to select renderer: %v", err)
		}
		snapshot := render.Snapshot(signup.fc, signup.inputs...)
		if *fields != "" {
			render.ApplySubset(&snapshot, render.FieldSubset{Prefixes: strings.Split(*fields, ",")})
		}
		out, err := r.Render(ctx, snapshot, renderOptions)
		if err != nil {
			log.Fatalf("Failed to render form: %v", err)
		}
		if *output != "" {
			if err := os.WriteFile(*output, out, 0o644); err != nil {
				log.Fatalf("Failed to write output: %v", err)
			}
			fmt.Printf("Form written to %s\n", *output)
		} else {
			fmt.Println(string(out))
		}

	case "tui":
		signup, err := newSignupForm(plugin, cfg.I18nBase, printSubmit(os.Stdout))
		if err != nil {
			log.Fatalf("Failed to build form: %v", err)
		}
		prompts, err := tui.New(tui.WithErrorText(renderOptions.ErrorText))
		if err != nil {
			log.Fatalf("Failed to configure prompts: %v", err)
		}
		if _, err := prompts.Run(ctx, signup.fc, signup.inputs...); err != nil {
			if errors.Is(err, tui.ErrAborted) {
				os.Exit(130)
			}
			log.Fatalf("Failed to submit form: %v", err)
		}

	case "http":
		path := cfg.HTTP.Path
		csrf := uuid.NewString()
		handler, err := httpform.NewHandler(func(r *http.Request) (*httpform.Form, error) {
			signup, err := newSignupForm(plugin, cfg.I18nBase, printSubmit(os.Stdout))
			if err != nil {
				return nil, err
			}
			return &httpform.Form{Context: signup.fc, Inputs: signup.inputs}, nil
		},
			httpform.WithRegistry(registry),
			httpform.WithRenderOptions(func(*http.Request) render.RenderOptions { return renderOptions }),
			httpform.WithCSRF(httpform.DefaultCSRFField, func(*http.Request) string { return csrf }),
			httpform.WithLogger(slogger(cfg)),
		)
		if err != nil {
			log.Fatalf("Failed to configure handler: %v", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(formstate.AssetsFS()))))
		mux.Handle(path, handler)
		log.Printf("Serving signup form on http://localhost%s%s", cfg.HTTP.Addr, path)
		if err := http.ListenAndServe(cfg.HTTP.Addr, mux); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}

	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

// errorText looks error codes up under "errors.<code>", showing the code when
// no catalog entry exists.
func errorText(catalog *i18n.Catalog, locale string) render.ErrorTextFunc {
	if catalog == nil {
		return nil
	}
	return func(code string, field form.ElementModel) string {
		return i18n.Translate(catalog, locale, "errors."+code, i18n.MissingKey, map[string]any{
			"label":   field.Label,
			"default": code,
		})
	}
}
