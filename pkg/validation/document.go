package validation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/form"
)

var (
	ErrOperationNotFound = errors.New("validation: operation not found")
	ErrNoRequestSchema   = errors.New("validation: operation has no JSON request body")
)

// Document is an OpenAPI description whose request bodies provide field
// rules, so a form can validate with the same constraints as the API it
// submits to.
type Document struct {
	spec *openapi3.T
}

// LoadDocument parses and validates an OpenAPI document in JSON or YAML.
func LoadDocument(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("validation: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("validation: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("validation: validate document: %w", err)
	}
	return &Document{spec: spec}, nil
}

// LoadDocumentFS reads name from fsys and loads it with LoadDocument.
func LoadDocumentFS(ctx context.Context, fsys fs.FS, name string) (*Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("validation: read %s: %w", name, err)
	}
	return LoadDocument(ctx, data)
}

// Rules flattens the JSON request body of operationID into one rule per
// leaf property, keyed by dotted path. Nested objects contribute their
// properties; a property is required when every object on its path lists it
// as required.
func (d *Document) Rules(operationID string) (map[string]*Rule, error) {
	op := d.operation(operationID)
	if op == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	schema := requestSchema(op)
	if schema == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoRequestSchema, operationID)
	}
	out := make(map[string]*Rule)
	collectRules(out, "", schema, true)
	return out, nil
}

// Paths lists the rule paths of operationID in sorted order.
func (d *Document) Paths(operationID string) ([]string, error) {
	rules, err := d.Rules(operationID)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(rules))
	for path := range rules {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// RuleFor returns a rule builder for one field of operationID. Unknown paths
// build no rule.
func (d *Document) RuleFor(operationID, fieldPath string) (form.RuleBuilder, error) {
	rules, err := d.Rules(operationID)
	if err != nil {
		return nil, err
	}
	rule, ok := rules[fieldPath]
	if !ok {
		return nil, nil
	}
	return For(func(Helper) *Rule { return rule.clone() }), nil
}

func (d *Document) operation(operationID string) *openapi3.Operation {
	if d == nil || d.spec == nil || d.spec.Paths == nil {
		return nil
	}
	for _, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

func collectRules(out map[string]*Rule, prefix string, schema *openapi3.Schema, required bool) {
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		isRequired := required && contains(schema.Required, name)
		prop := ref.Value
		kind := kindOf(prop)
		if kind == KindObject && len(prop.Properties) > 0 {
			collectRules(out, path, prop, isRequired)
			continue
		}
		out[path] = &Rule{Schema: prop, Kind: kind, IsRequired: isRequired}
	}
}

func kindOf(schema *openapi3.Schema) Kind {
	if schema.Type == nil {
		return KindAny
	}
	for _, t := range *schema.Type {
		switch strings.ToLower(t) {
		case "string":
			return KindString
		case "number":
			return KindNumber
		case "integer":
			return KindInteger
		case "boolean":
			return KindBoolean
		case "object":
			return KindObject
		case "array":
			return KindArray
		}
	}
	return KindAny
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
