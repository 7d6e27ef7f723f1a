// Package config loads form plugin settings from a JSON or YAML file and
// FORMSTATE_* environment variables, and turns them into form options.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formmodel"
	"github.com/goliatone/go-formstate/pkg/i18n"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// File is the plugin configuration. Environment variables override values
// read from the file.
type File struct {
	I18nBase              string `json:"i18nBase" yaml:"i18nBase" env:"FORMSTATE_I18N_BASE"`
	Locale                string `json:"locale" yaml:"locale" env:"FORMSTATE_LOCALE"`
	FallbackLocale        string `json:"fallbackLocale" yaml:"fallbackLocale" env:"FORMSTATE_FALLBACK_LOCALE"`
	CatalogDir            string `json:"catalogDir" yaml:"catalogDir" env:"FORMSTATE_CATALOG_DIR"`
	LabelPrefix           string `json:"labelPrefix" yaml:"labelPrefix" env:"FORMSTATE_LABEL_PREFIX"`
	HelptextPrefix        string `json:"helptextPrefix" yaml:"helptextPrefix" env:"FORMSTATE_HELPTEXT_PREFIX"`
	DefaultEnableHelptext bool   `json:"defaultEnableHelptext" yaml:"defaultEnableHelptext" env:"FORMSTATE_DEFAULT_ENABLE_HELPTEXT"`
	Validation            bool   `json:"validation" yaml:"validation" env:"FORMSTATE_VALIDATION"`
	AutoRequired          bool   `json:"autoRequired" yaml:"autoRequired" env:"FORMSTATE_AUTO_REQUIRED"`
	LogLevel              string `json:"logLevel" yaml:"logLevel" env:"FORMSTATE_LOG_LEVEL"`
	HTTP                  HTTP   `json:"http" yaml:"http"`
}

// HTTP configures the demo HTTP host.
type HTTP struct {
	Addr string `json:"addr" yaml:"addr" env:"FORMSTATE_HTTP_ADDR"`
	Path string `json:"path" yaml:"path" env:"FORMSTATE_HTTP_PATH"`
}

// Default returns the settings used when nothing else is configured.
func Default() File {
	return File{
		Locale:         "en",
		LabelPrefix:    "label_",
		HelptextPrefix: "help_",
		Validation:     true,
		AutoRequired:   true,
		LogLevel:       "info",
		HTTP: HTTP{
			Addr: ":8080",
			Path: "/",
		},
	}
}

// Load reads path (when non-empty) over the defaults, then applies the
// environment.
func Load(path string) (File, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.Parse(data, path); err != nil {
			return File{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// Parse decodes data into f, choosing the decoder from the extension of
// source. Unknown extensions try JSON, then YAML. Keys missing from data keep
// their current value, and f is left untouched on error.
func (f *File) Parse(data []byte, source string) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("config: file %s is empty", source)
	}

	next := *f
	var err error
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		err = json.Unmarshal(data, &next)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &next)
	default:
		if err = json.Unmarshal(data, &next); err != nil {
			next = *f
			err = yaml.Unmarshal(data, &next)
		}
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", source, err)
	}
	*f = next
	return nil
}

// ApplyEnv overrides f with every FORMSTATE_* variable that is set.
func (f *File) ApplyEnv() error {
	if err := envdecode.Decode(f); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Level parses LogLevel, defaulting to info.
func (f File) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(f.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Catalog loads CatalogDir, or returns nil when no directory is configured.
func (f File) Catalog() (*i18n.Catalog, error) {
	if f.CatalogDir == "" {
		return nil, nil
	}
	catalog := i18n.NewCatalog(i18n.WithFallbackLocale(f.FallbackLocale))
	if err := catalog.LoadFS(os.DirFS(f.CatalogDir), "."); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return catalog, nil
}

// PluginOptions turns the settings into form plugin options. Logs are
// written as text to logOutput, or discarded when it is nil.
func (f File) PluginOptions(logOutput io.Writer) ([]form.Option, error) {
	if logOutput == nil {
		logOutput = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: f.Level()}))
	opts := []form.Option{
		form.WithFormModelFactory(formmodel.Factory(formmodel.WithLogger(logger))),
		form.WithLabelKey(prefix(f.LabelPrefix)),
		form.WithHelptextKey(prefix(f.HelptextPrefix)),
		form.WithDefaultEnableHelptext(f.DefaultEnableHelptext),
		form.WithLogger(logger),
	}
	if f.Validation {
		opts = append(opts, form.WithSchemaBuilderFactory(validation.Factory()))
	}
	if f.AutoRequired {
		opts = append(opts, form.WithAutoRule(validation.RequiredAutoRule))
	}

	catalog, err := f.Catalog()
	if err != nil {
		return nil, err
	}
	if catalog != nil {
		opts = append(opts, form.WithTranslate(i18n.Func(catalog, f.Locale, nil)))
	}
	return opts, nil
}

func prefix(p string) form.Transform {
	if p == "" {
		return nil
	}
	return func(key string) string {
		return p + key
	}
}
