package formmodel

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/goliatone/go-formstate/pkg/form"
)

const emptyDocument = "{}"

// Model is a JSON-document backed form.Model. Field cells only overlay the
// baseline once their value was set; error codes are kept apart from values.
type Model struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	baseline []byte
	fields   map[string]*Field
	codes    map[string]string
	errors   form.Values
}

var _ form.Model = (*Model)(nil)

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used to report values that cannot be stored.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New constructs an empty model. Call Initialize before use, or rely on
// form.Plugin.NewContext doing so.
func New(options ...Option) *Model {
	m := &Model{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		baseline: []byte(emptyDocument),
		fields:   make(map[string]*Field),
		codes:    make(map[string]string),
	}
	for _, option := range options {
		if option != nil {
			option(m)
		}
	}
	return m
}

// Factory returns a form.ModelFactory producing fresh models.
func Factory(options ...Option) form.ModelFactory {
	return func() form.Model {
		return New(options...)
	}
}

// Initialize replaces the baseline with values and resets every known field
// to it.
func (m *Model) Initialize(values form.Values) error {
	if values == nil {
		values = form.Values{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("formmodel: encode values: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.baseline = raw
	for _, f := range m.fields {
		f.reset()
	}
	return nil
}

// Field returns the cell for fieldPath, creating it from the baseline on
// first use.
func (m *Model) Field(fieldPath string) form.Field {
	return m.field(fieldPath)
}

func (m *Model) field(fieldPath string) *Field {
	m.mu.RLock()
	f, ok := m.fields[fieldPath]
	m.mu.RUnlock()
	if ok {
		return f
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fieldLocked(fieldPath)
}

func (m *Model) fieldLocked(fieldPath string) *Field {
	if f, ok := m.fields[fieldPath]; ok {
		return f
	}
	f := &Field{model: m, path: fieldPath, value: m.read(fieldPath)}
	m.fields[fieldPath] = f
	return f
}

// editedLocked lists the cells whose value was set since the last reset or
// store, parents before their children.
func (m *Model) editedLocked() []*Field {
	edited := make([]*Field, 0, len(m.fields))
	for _, f := range m.fields {
		if f.dirty {
			edited = append(edited, f)
		}
	}
	sort.Slice(edited, func(i, j int) bool {
		di, dj := strings.Count(edited[i].path, "."), strings.Count(edited[j].path, ".")
		if di != dj {
			return di < dj
		}
		return edited[i].path < edited[j].path
	})
	return edited
}

// Values returns the baseline with every edited field applied.
func (m *Model) Values() (form.Values, error) {
	m.mu.RLock()
	doc := append([]byte(nil), m.baseline...)
	var err error
	for _, f := range m.editedLocked() {
		doc, err = sjson.SetBytes(doc, escapePath(f.path), f.value)
		if err != nil {
			m.mu.RUnlock()
			return nil, fmt.Errorf("formmodel: apply field %q: %w", f.path, err)
		}
	}
	m.mu.RUnlock()

	return decode(doc)
}

// Baseline returns the committed values without field overlays.
func (m *Model) Baseline() (form.Values, error) {
	m.mu.RLock()
	doc := append([]byte(nil), m.baseline...)
	m.mu.RUnlock()
	return decode(doc)
}

// SetErrors replaces all field errors. Codes for paths without a field are
// kept so they are visible once something binds to the path. The nested
// error tree is kept for Errors.
func (m *Model) SetErrors(errs []form.ValidationError) error {
	flat := make(map[string]any, len(errs))
	for _, verr := range errs {
		flat[verr.FieldPath] = verr.Key
	}
	tree, err := form.Unflatten(flat)
	if err != nil {
		return fmt.Errorf("formmodel: set errors: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.codes = make(map[string]string, len(errs))
	for _, verr := range errs {
		m.codes[verr.FieldPath] = verr.Key
	}
	m.errors = tree
	return nil
}

// ClearErrors empties every field error.
func (m *Model) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.codes = make(map[string]string)
	m.errors = nil
}

// Errors returns the nested error tree written by the last SetErrors call.
func (m *Model) Errors() form.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.errors) == 0 {
		return nil
	}
	out := make(form.Values, len(m.errors))
	for key, value := range m.errors {
		out[key] = value
	}
	return out
}

// Store commits every edited field value into the baseline.
func (m *Model) Store() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.editedLocked() {
		m.storeLocked(f)
	}
	m.refreshLocked()
}

// Reset reverts every field to the baseline.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.fields {
		f.reset()
	}
}

// storeLocked keeps the previous baseline and the edit when the value cannot
// be encoded.
func (m *Model) storeLocked(f *Field) {
	doc, err := sjson.SetBytes(m.baseline, escapePath(f.path), f.value)
	if err != nil {
		m.logger.Warn("formmodel: store field", "path", f.path, "error", err)
		return
	}
	m.baseline = doc
	f.dirty = false
}

// refreshLocked re-reads unedited cells so they follow the baseline.
func (m *Model) refreshLocked() {
	for _, f := range m.fields {
		if !f.dirty {
			f.value = m.read(f.path)
		}
	}
}

func (m *Model) read(fieldPath string) any {
	result := gjson.GetBytes(m.baseline, escapePath(fieldPath))
	if !result.Exists() {
		return nil
	}
	return result.Value()
}

func decode(doc []byte) (form.Values, error) {
	out := form.Values{}
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, fmt.Errorf("formmodel: decode values: %w", err)
	}
	return out, nil
}

// escapePath escapes gjson/sjson wildcard and modifier characters so only
// dots act as separators.
func escapePath(fieldPath string) string {
	if !strings.ContainsAny(fieldPath, `*?|#@\`) {
		return fieldPath
	}
	var b strings.Builder
	b.Grow(len(fieldPath) + 4)
	for _, r := range fieldPath {
		if strings.ContainsRune(`*?|#@\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
