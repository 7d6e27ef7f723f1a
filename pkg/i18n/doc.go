// Package i18n supplies the translation side of form labels, help texts and
// error codes: a Translator interface, a file-backed Catalog, the glue that
// turns a Translator into a form.TranslateFunc, and template helpers.
package i18n
