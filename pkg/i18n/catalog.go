package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Catalog is an in-memory Translator keyed by locale and dotted key.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
	fallback string
}

var _ Translator = (*Catalog)(nil)

// CatalogOption customises a Catalog.
type CatalogOption func(*Catalog)

// WithFallbackLocale sets the locale consulted after the requested locale
// and its base language.
func WithFallbackLocale(locale string) CatalogOption {
	return func(c *Catalog) {
		c.fallback = strings.TrimSpace(locale)
	}
}

// NewCatalog creates an empty catalog.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{messages: make(map[string]map[string]string)}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Add merges a nested message tree into locale. Nested maps become dotted
// keys; non-string leaves are formatted with fmt.
func (c *Catalog) Add(locale string, messages map[string]any) {
	flat := form.Flatten(messages)

	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.messages[locale]
	if !ok {
		bucket = make(map[string]string, len(flat))
		c.messages[locale] = bucket
	}
	for key, value := range flat {
		if s, ok := value.(string); ok {
			bucket[key] = s
			continue
		}
		bucket[key] = fmt.Sprint(value)
	}
}

// LoadFS reads every <locale>.yaml, <locale>.yml and <locale>.json file in
// dir.
func (c *Catalog) LoadFS(fsys fs.FS, dir string) error {
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("i18n: read catalog dir %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := path.Ext(name)
		switch ext {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("i18n: read %q: %w", name, err)
		}
		messages := map[string]any{}
		if ext == ".json" {
			err = json.Unmarshal(raw, &messages)
		} else {
			err = yaml.Unmarshal(raw, &messages)
		}
		if err != nil {
			return fmt.Errorf("i18n: parse %q: %w", name, err)
		}
		c.Add(strings.TrimSuffix(name, ext), messages)
	}
	return nil
}

// Locales lists the loaded locales in sorted order.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate looks key up in locale, its base language ("en" for "en-US")
// and the fallback locale, in that order. A map[string]any argument
// provides "{name}" placeholders.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range c.chain(locale) {
		if msg, ok := c.messages[candidate][key]; ok {
			return interpolate(msg, args), nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

func (c *Catalog) chain(locale string) []string {
	chain := make([]string, 0, 3)
	if locale != "" {
		chain = append(chain, locale)
		if idx := strings.IndexAny(locale, "-_"); idx > 0 {
			chain = append(chain, locale[:idx])
		}
	}
	if c.fallback != "" && c.fallback != locale {
		chain = append(chain, c.fallback)
	}
	return chain
}

func interpolate(msg string, args []any) string {
	if !strings.Contains(msg, "{") {
		return msg
	}
	for _, arg := range args {
		params, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		for name, value := range params {
			msg = strings.ReplaceAll(msg, "{"+name+"}", fmt.Sprint(value))
		}
	}
	return msg
}
