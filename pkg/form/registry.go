package form

import (
	"context"
	"sort"
	"sync"
)

// RuleSet is the snapshot of registered rules handed to a BuildFunc.
type RuleSet struct {
	rules  map[string]RuleBuilder
	helper ValidationHelper
}

// Len returns the number of registered paths.
func (s RuleSet) Len() int {
	return len(s.rules)
}

// Paths returns the registered field paths in sorted order.
func (s RuleSet) Paths() []string {
	paths := make([]string, 0, len(s.rules))
	for path := range s.rules {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Rule applies the builder registered at path to the registry helper. It
// returns nil when nothing is registered.
func (s RuleSet) Rule(fieldPath string) ValidationRule {
	builder, ok := s.rules[fieldPath]
	if !ok || builder == nil {
		return nil
	}
	return builder(s.helper)
}

// BuildFunc turns the current rule set into a Schema. It is supplied by the
// validation library adapter.
type BuildFunc func(rules RuleSet) (Schema, error)

// GenericSchemaBuilder implements the registry side of SchemaBuilder: one
// rule builder per path (latest registration wins) and a cached schema that
// is rebuilt only after the rule set changed.
type GenericSchemaBuilder struct {
	mu         sync.Mutex
	helper     ValidationHelper
	build      BuildFunc
	rules      map[string]RuleBuilder
	generation uint64
	dirty      bool
	schema     Schema
}

var _ SchemaBuilder = (*GenericSchemaBuilder)(nil)

// NewGenericSchemaBuilder creates an empty registry. helper is passed to
// every rule builder when the schema is built.
func NewGenericSchemaBuilder(helper ValidationHelper, build BuildFunc) *GenericSchemaBuilder {
	return &GenericSchemaBuilder{
		helper: helper,
		build:  build,
		rules:  make(map[string]RuleBuilder),
		dirty:  true,
	}
}

// Register stores builder at fieldPath, replacing any previous builder.
func (b *GenericSchemaBuilder) Register(fieldPath string, builder RuleBuilder) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rules[fieldPath] = builder
	b.touch()
}

// Unregister removes the builder stored at fieldPath.
func (b *GenericSchemaBuilder) Unregister(fieldPath string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.rules, fieldPath)
	b.touch()
}

// Dirty reports whether the next Schema call rebuilds.
func (b *GenericSchemaBuilder) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty || b.schema == nil
}

// Paths lists the registered field paths in sorted order.
func (b *GenericSchemaBuilder) Paths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return RuleSet{rules: b.rules}.Paths()
}

// Schema returns the cached schema, rebuilding it first when a rule was
// registered or unregistered since the last build. A failed build leaves
// the registry dirty.
func (b *GenericSchemaBuilder) Schema() (Schema, error) {
	b.mu.Lock()
	if !b.dirty && b.schema != nil {
		schema := b.schema
		b.mu.Unlock()
		return schema, nil
	}
	rules := make(map[string]RuleBuilder, len(b.rules))
	for path, builder := range b.rules {
		rules[path] = builder
	}
	generation := b.generation
	build := b.build
	b.mu.Unlock()

	if build == nil {
		build = passthroughBuild
	}
	// Builders run without holding mu; they may read element state.
	schema, err := build(RuleSet{rules: rules, helper: b.helper})
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.generation == generation {
		b.schema = schema
		b.dirty = false
	}
	return schema, nil
}

func (b *GenericSchemaBuilder) touch() {
	b.generation++
	b.dirty = true
}

func passthroughBuild(RuleSet) (Schema, error) {
	return SchemaFunc(func(_ context.Context, values Values) (ValidationResult, error) {
		return Valid(values), nil
	}), nil
}
