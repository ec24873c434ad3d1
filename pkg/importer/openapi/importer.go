// Package openapi imports an OpenAPI 3 object schema as a fields-only form
// document. Property types map onto form field types; constraints such as
// enum, min/max, and length bounds carry over.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/version"
)

// Options configures the importer.
type Options struct {
	// SchemaName picks a named component schema. Empty means the first object
	// schema in sorted component order.
	SchemaName string
	// ResolveReferences validates the document and resolves external refs.
	ResolveReferences bool
}

// Importer converts OpenAPI documents into form documents.
type Importer struct {
	options Options
}

// New constructs an Importer with the given options.
func New(options Options) *Importer {
	return &Importer{options: options}
}

// Import parses the payload and builds a fields-only document from the
// selected component schema.
func (i *Importer) Import(ctx context.Context, payload []byte) (schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}
	if len(payload) == 0 {
		return schema.Document{}, errors.New("openapi import: payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(payload)
	if err != nil {
		return schema.Document{}, fmt.Errorf("openapi import: load document: %w", err)
	}
	if i.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Document{}, fmt.Errorf("openapi import: validate: %w", err)
		}
	}

	name, source, err := i.pickSchema(spec)
	if err != nil {
		return schema.Document{}, err
	}

	fields, err := buildFields(source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("openapi import: schema %q: %w", name, err)
	}
	if len(fields) == 0 {
		return schema.Document{}, fmt.Errorf("openapi import: schema %q has no usable properties", name)
	}

	title := strings.TrimSpace(source.Title)
	if title == "" {
		title = humanize(name)
	}

	return schema.Document{
		Version: fmt.Sprintf("%d", lowestSupportedMajor()),
		UISchema: schema.Schema{
			Title:       title,
			Description: strings.TrimSpace(source.Description),
			Fields:      fields,
		},
	}, nil
}

func (i *Importer) pickSchema(spec *openapi3.T) (string, *openapi3.Schema, error) {
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return "", nil, errors.New("openapi import: document has no component schemas")
	}

	if i.options.SchemaName != "" {
		ref, ok := spec.Components.Schemas[i.options.SchemaName]
		if !ok || ref.Value == nil {
			return "", nil, fmt.Errorf("openapi import: schema %q not found", i.options.SchemaName)
		}
		return i.options.SchemaName, ref.Value, nil
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ref := spec.Components.Schemas[name]
		if ref.Value != nil && isObjectSchema(ref.Value) {
			return name, ref.Value, nil
		}
	}
	return "", nil, errors.New("openapi import: no object schema found")
}

func buildFields(source *openapi3.Schema) ([]schema.Field, error) {
	if !isObjectSchema(source) {
		return nil, errors.New("not an object schema")
	}

	required := make(map[string]bool, len(source.Required))
	for _, name := range source.Required {
		required[name] = true
	}

	names := make([]string, 0, len(source.Properties))
	for name := range source.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		ref := source.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := buildField(name, ref.Value, required[name])
		if !ok {
			continue
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// buildField maps one property onto a form field. Unsupported property types
// (objects, arrays without enum semantics) are skipped rather than guessed.
func buildField(name string, prop *openapi3.Schema, required bool) (schema.Field, bool) {
	field := schema.Field{
		ID:       name,
		Label:    labelFor(name, prop),
		Required: required,
	}
	if prop.Description != "" {
		field.Placeholder = strings.TrimSpace(prop.Description)
	}
	if prop.Default != nil {
		field.Default = prop.Default
	}

	switch {
	case len(prop.Enum) > 0:
		field.Type = schema.FieldSelect
		field.Options = append([]any(nil), prop.Enum...)

	case prop.Type.Is(openapi3.TypeBoolean):
		field.Type = schema.FieldCheckbox

	case prop.Type.Is(openapi3.TypeNumber), prop.Type.Is(openapi3.TypeInteger):
		field.Type = schema.FieldNumber
		if prop.Min != nil {
			field.Min = ptr(*prop.Min)
		}
		if prop.Max != nil {
			field.Max = ptr(*prop.Max)
		}

	case prop.Type.Is(openapi3.TypeString):
		field.Type = stringFieldType(prop)
		if prop.MinLength > 0 {
			field.MinLength = ptr(int(prop.MinLength))
		}
		if prop.MaxLength != nil {
			field.MaxLength = ptr(int(*prop.MaxLength))
		}
		if prop.Pattern != "" {
			field.Pattern = prop.Pattern
		}

	default:
		return schema.Field{}, false
	}

	return field, true
}

func stringFieldType(prop *openapi3.Schema) schema.FieldType {
	switch prop.Format {
	case "email":
		return schema.FieldEmail
	case "textarea":
		return schema.FieldTextarea
	}
	// Long free-text hints get a textarea.
	if prop.MaxLength != nil && *prop.MaxLength > 255 {
		return schema.FieldTextarea
	}
	return schema.FieldText
}

func labelFor(name string, prop *openapi3.Schema) string {
	if prop.Title != "" {
		return strings.TrimSpace(prop.Title)
	}
	return humanize(name)
}

// humanize turns snake_case/camelCase identifiers into a display label.
func humanize(name string) string {
	if name == "" {
		return name
	}
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case r >= 'A' && r <= 'Z':
			flush()
			current.WriteRune(r + ('a' - 'A'))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	if len(words) == 0 {
		return name
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

func isObjectSchema(s *openapi3.Schema) bool {
	if len(s.Properties) > 0 {
		return true
	}
	return s.Type.Is(openapi3.TypeObject)
}

func lowestSupportedMajor() int {
	majors := make([]int, 0, len(version.SupportedMajors))
	for major := range version.SupportedMajors {
		majors = append(majors, major)
	}
	sort.Ints(majors)
	return majors[0]
}

func ptr[T any](v T) *T { return &v }
