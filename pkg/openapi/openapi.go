// Package openapi derives general-surface template fields from an
// OpenAPI document. A procurement backend that already publishes its
// order schema can have header forms generated from the create-order
// operation's request body instead of hand-maintaining a template.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-orderentry/internal/normalize"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// ErrOperationNotFound is returned when the document has no operation
// with the requested id.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// Options configures field derivation.
type Options struct {
	// ResolveReferences validates the document and resolves $ref targets
	// before extraction.
	ResolveReferences bool

	// MediaTypes is the preference order for request body content.
	// Defaults to JSON first, then form encodings.
	MediaTypes []string
}

var defaultMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// FieldsFromOperation loads an OpenAPI document and converts the request
// body schema of the operation identified by operationID into a flat
// template field list. Object properties become fields; nested objects
// and arrays are skipped since a general surface only renders scalars.
func FieldsFromOperation(ctx context.Context, doc []byte, operationID string, opts Options) ([]template.TemplateField, error) {
	if len(doc) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if strings.TrimSpace(operationID) == "" {
		return nil, errors.New("openapi: operation id required")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if opts.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi: %q: %w", operationID, ErrOperationNotFound)
	}

	schema := requestSchema(operation, opts.mediaTypes())
	if schema == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	fields := fieldsFromSchema(schema)
	if len(fields) == 0 {
		return nil, fmt.Errorf("openapi: operation %q yields no usable fields", operationID)
	}
	return fields, nil
}

func (o Options) mediaTypes() []string {
	if len(o.MediaTypes) > 0 {
		return o.MediaTypes
	}
	return defaultMediaTypes
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Patch,
		} {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation, mediaTypes []string) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// fieldsFromSchema flattens an object schema's scalar properties to
// template fields. Property names are sorted so field order is stable
// across runs; kin-openapi stores properties in a map.
func fieldsFromSchema(schema *openapi3.Schema) []template.TemplateField {
	if len(schema.Properties) == 0 {
		return nil
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]template.TemplateField, 0, len(names))
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := fieldFromProperty(name, ref.Value)
		if !ok {
			continue
		}
		field.Required = required[name]
		field.SortOrder = len(fields)
		fields = append(fields, field)
	}
	return fields
}

func fieldFromProperty(name string, prop *openapi3.Schema) (template.TemplateField, bool) {
	field := template.TemplateField{
		FieldName: name,
		Label:     labelFor(name, prop),
	}

	switch schemaType(prop.Type) {
	case "string":
		field.FieldType = stringFieldType(name, prop)
	case "number", "integer":
		field.FieldType = template.FieldTypeNumber
	case "boolean":
		field.FieldType = template.FieldTypeSelect
		field.Options = []string{"true", "false"}
	default:
		// Objects, arrays, and untyped schemas have no scalar widget.
		return template.TemplateField{}, false
	}

	if len(prop.Enum) > 0 && field.FieldType != template.FieldTypeSelect {
		field.FieldType = template.FieldTypeSelect
		field.Options = enumOptions(prop.Enum)
	}
	return field, true
}

func stringFieldType(name string, prop *openapi3.Schema) template.FieldType {
	switch prop.Format {
	case "date", "date-time":
		return template.FieldTypeDate
	}
	if prop.MaxLength != nil && *prop.MaxLength > 255 {
		return template.FieldTypeTextarea
	}
	if inferred := normalize.InferFieldType(name); inferred == template.FieldTypeDate {
		return inferred
	}
	return template.FieldTypeText
}

func labelFor(name string, prop *openapi3.Schema) string {
	if prop.Title != "" {
		return prop.Title
	}
	return name
}

func enumOptions(values []any) []string {
	options := make([]string, 0, len(values))
	for _, value := range values {
		options = append(options, fmt.Sprintf("%v", value))
	}
	return options
}

func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
