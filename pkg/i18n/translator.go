package i18n

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
)

var (
	// ErrMissingTranslator is passed to MissingTranslationHandler when no
	// translator is configured.
	ErrMissingTranslator = errors.New("i18n: translator is not configured")
	// ErrMissingTranslation is returned by Catalog when no locale in the
	// fallback chain defines a key.
	ErrMissingTranslation = errors.New("i18n: translation not found")
)

// Translator resolves a key for a locale. Implementations may interpret args
// as interpolation parameters.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what is shown when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// MissingKey returns the "default" parameter when one was passed, otherwise
// the key itself.
func MissingKey(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		params, ok := arg.(map[string]any)
		if !ok || params["default"] == nil {
			continue
		}
		if fallback := strings.TrimSpace(fmt.Sprint(params["default"])); fallback != "" {
			return fallback
		}
	}
	return key
}

// Func binds a translator to a locale and returns the form translate hook.
func Func(t Translator, locale string, onMissing MissingTranslationHandler) form.TranslateFunc {
	if onMissing == nil {
		onMissing = MissingKey
	}
	return func(key string) string {
		return Translate(t, locale, key, onMissing)
	}
}

// Translate resolves key, routing failures and empty results through
// onMissing.
func Translate(t Translator, locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	if onMissing == nil {
		onMissing = MissingKey
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	msg, err := t.Translate(locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(locale, key, args, err)
	}
	return msg
}
