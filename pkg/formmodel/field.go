package formmodel

// Field is the value/error cell for one path of a Model.
type Field struct {
	model *Model
	path  string
	value any
	dirty bool
}

// Path returns the field path the cell is bound to.
func (f *Field) Path() string { return f.path }

// Value returns the current value.
func (f *Field) Value() any {
	f.model.mu.RLock()
	defer f.model.mu.RUnlock()
	return f.value
}

// SetValue replaces the current value.
func (f *Field) SetValue(value any) {
	f.model.mu.Lock()
	defer f.model.mu.Unlock()
	f.value = value
	f.dirty = true
}

// ErrorCode returns the current error code.
func (f *Field) ErrorCode() string {
	f.model.mu.RLock()
	defer f.model.mu.RUnlock()
	return f.model.codes[f.path]
}

// SetErrorCode replaces the current error code.
func (f *Field) SetErrorCode(code string) {
	f.model.mu.Lock()
	defer f.model.mu.Unlock()
	if code == "" {
		delete(f.model.codes, f.path)
		return
	}
	f.model.codes[f.path] = code
}

// Store commits the current value into the model baseline.
func (f *Field) Store() {
	f.model.mu.Lock()
	defer f.model.mu.Unlock()
	f.model.storeLocked(f)
	f.model.refreshLocked()
}

// Reset reverts the value to the model baseline.
func (f *Field) Reset() {
	f.model.mu.Lock()
	defer f.model.mu.Unlock()
	f.reset()
}

func (f *Field) reset() {
	f.value = f.model.read(f.path)
	f.dirty = false
}

// Baseline returns the committed value of the field.
func (f *Field) Baseline() any {
	f.model.mu.RLock()
	defer f.model.mu.RUnlock()
	return f.model.read(f.path)
}
