package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotObject signals a payload whose top level is not a JSON object.
var ErrNotObject = errors.New("schema: payload is not an object")

// ParsePayload decodes raw bytes into a generic payload, trying JSON first
// and YAML second, and applies envelope normalization. The generic form is
// what the structural validator consumes; use Decode to obtain the typed
// document once validation passes.
func ParsePayload(data []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("schema: payload is empty")
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		var yamlValue any
		if yamlErr := yaml.Unmarshal(data, &yamlValue); yamlErr != nil {
			return nil, fmt.Errorf("schema: payload is neither valid JSON nor YAML: %w", err)
		}
		value = normalizeYAML(yamlValue)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return NormalizeEnvelope(obj), nil
}

// NormalizeEnvelope wraps a bare schema payload into the document envelope.
// Precedence is explicit: a payload carrying a uiSchema key is already
// enveloped; anything else is treated as the schema itself for backward
// compatibility with pre-envelope producers.
func NormalizeEnvelope(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	if _, ok := raw["uiSchema"]; ok {
		return raw
	}
	return map[string]any{"uiSchema": raw}
}

// Decode converts a normalized generic payload into a typed Document. Labels,
// descriptions, and placeholders are sanitized on the way in since renderers
// may emit them as markup.
func Decode(raw map[string]any) (Document, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return Document{}, fmt.Errorf("schema: re-encode payload: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("schema: decode document: %w", err)
	}
	sanitizeDocument(&doc)
	return doc, nil
}

// normalizeYAML rewrites yaml.v3 decoding artifacts (map[any]any keys,
// integer values) into the JSON-shaped generic form the rest of the pipeline
// expects.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeYAML(item)
		}
		return out
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return v
	}
}
