package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/suggest"
)

// maxConditionDepth bounds recursion while shape-checking nested conditions.
// Schemas are tree-shaped JSON, so the bound only matters for pathological
// untrusted input.
const maxConditionDepth = 32

// Document validates a normalized generic payload (envelope form, see
// schema.NormalizeEnvelope) against the recognized UI schema shapes:
// fields-only, layout-only, or both. Layout wins for rendering when both are
// present, but the combined shape is accepted for authoring convenience.
func Document(raw map[string]any) Result {
	v := &validator{}
	if raw == nil {
		v.report("", "payload must be an object")
		return capResult(v.issues)
	}

	if value, ok := raw["version"]; ok {
		if _, isString := value.(string); !isString {
			v.report("version", "must be a string")
		}
	}
	if value, ok := raw["submitToAssistant"]; ok {
		if _, isBool := value.(bool); !isBool {
			v.report("submitToAssistant", "must be a boolean")
		}
	}
	if value, ok := raw["submitMessage"]; ok {
		if _, isString := value.(string); !isString {
			v.report("submitMessage", "must be a string")
		}
	}

	uiSchema, ok := raw["uiSchema"].(map[string]any)
	if !ok {
		v.report("uiSchema", "must be an object")
		return capResult(v.issues)
	}
	v.validateSchema("uiSchema", uiSchema)

	return capResult(v.issues)
}

type validator struct {
	issues   []Issue
	fieldIDs map[string]struct{}
}

func (v *validator) report(path, message string) {
	v.issues = append(v.issues, Issue{Path: displayPath(path), Message: message})
}

func (v *validator) reportEnum(path string, received any, allowed []string) {
	issue := Issue{
		Path:    displayPath(path),
		Message: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
		Allowed: toAnySlice(allowed),
	}
	if received, ok := received.(string); ok {
		if match, ok := suggest.BestString(received, allowed); ok {
			issue.Suggestion = match
		}
	}
	v.issues = append(v.issues, issue)
}

func (v *validator) validateSchema(path string, uiSchema map[string]any) {
	v.fieldIDs = make(map[string]struct{})

	title, ok := uiSchema["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		v.report(childPath(path, "title"), "is required and must be a non-empty string")
	}
	if value, ok := uiSchema["description"]; ok {
		if _, isString := value.(string); !isString {
			v.report(childPath(path, "description"), "must be a string")
		}
	}

	if value, ok := uiSchema["fields"]; ok {
		fields, isArray := value.([]any)
		if !isArray {
			v.report(childPath(path, "fields"), "must be an array")
		} else {
			for i, item := range fields {
				v.validateField(indexPath(childPath(path, "fields"), i), item)
			}
		}
	}

	if value, ok := uiSchema["layout"]; ok {
		nodes, isArray := value.([]any)
		if !isArray {
			v.report(childPath(path, "layout"), "must be an array")
		} else {
			for i, item := range nodes {
				v.validateNode(indexPath(childPath(path, "layout"), i), item, 0)
			}
		}
	}

	if value, ok := uiSchema["actions"]; ok {
		actions, isArray := value.([]any)
		if !isArray {
			v.report(childPath(path, "actions"), "must be an array")
		} else {
			for i, item := range actions {
				v.validateAction(indexPath(childPath(path, "actions"), i), item)
			}
		}
	}
}

func (v *validator) validateField(path string, value any) {
	field, ok := value.(map[string]any)
	if !ok {
		v.report(path, "field must be an object")
		return
	}

	id, _ := field["id"].(string)
	if strings.TrimSpace(id) == "" {
		v.report(childPath(path, "id"), "is required and must be a non-empty string")
	} else if _, seen := v.fieldIDs[id]; seen {
		v.report(childPath(path, "id"), fmt.Sprintf("duplicate field id %q", id))
	} else {
		v.fieldIDs[id] = struct{}{}
	}

	if label, ok := field["label"].(string); !ok || strings.TrimSpace(label) == "" {
		v.report(childPath(path, "label"), "is required and must be a non-empty string")
	}

	fieldType, _ := field["type"].(string)
	if !contains(schema.FieldTypes(), fieldType) {
		v.reportEnum(childPath(path, "type"), field["type"], schema.FieldTypes())
	}

	if fieldType == string(schema.FieldSelect) {
		options, ok := field["options"].([]any)
		if !ok || len(options) == 0 {
			v.report(childPath(path, "options"), "select fields require a non-empty options array")
		}
	}

	v.checkString(field, path, "placeholder")
	v.checkString(field, path, "pattern")
	v.checkBool(field, path, "required")
	v.checkNumber(field, path, "min")
	v.checkNumber(field, path, "max")
	v.checkInteger(field, path, "minLength")
	v.checkInteger(field, path, "maxLength")
	v.checkInteger(field, path, "rows")
	v.validateFallback(path, field)
	if cond, ok := field["condition"]; ok {
		v.validateCondition(childPath(path, "condition"), cond, 0)
	}
}

func (v *validator) validateAction(path string, value any) {
	action, ok := value.(map[string]any)
	if !ok {
		v.report(path, "action must be an object")
		return
	}

	if id, ok := action["id"].(string); !ok || strings.TrimSpace(id) == "" {
		v.report(childPath(path, "id"), "is required and must be a non-empty string")
	}
	if label, ok := action["label"].(string); !ok || strings.TrimSpace(label) == "" {
		v.report(childPath(path, "label"), "is required and must be a non-empty string")
	}

	actionType, _ := action["type"].(string)
	if !contains(schema.ActionTypes(), actionType) {
		v.reportEnum(childPath(path, "type"), action["type"], schema.ActionTypes())
	}
	if style, ok := action["style"]; ok {
		styleString, _ := style.(string)
		if !contains(schema.ActionStyles(), styleString) {
			v.reportEnum(childPath(path, "style"), style, schema.ActionStyles())
		}
	}
	v.validateFallback(path, action)
	if cond, ok := action["condition"]; ok {
		v.validateCondition(childPath(path, "condition"), cond, 0)
	}
}

func (v *validator) validateNode(path string, value any, depth int) {
	if depth > maxConditionDepth {
		v.report(path, "layout nesting exceeds the supported depth")
		return
	}

	node, ok := value.(map[string]any)
	if !ok {
		v.report(path, "layout node must be an object")
		return
	}

	nodeType, _ := node["type"].(string)
	if !contains(schema.ContainerKinds(), nodeType) {
		// Not a container; must be a field leaf.
		if contains(schema.FieldTypes(), nodeType) {
			v.validateField(path, value)
			return
		}
		v.reportEnum(childPath(path, "type"), node["type"],
			append(schema.ContainerKinds(), schema.FieldTypes()...))
		return
	}

	if gap, ok := node["gap"]; ok {
		gapString, _ := gap.(string)
		if !contains(schema.Gaps(), gapString) {
			v.reportEnum(childPath(path, "gap"), gap, schema.Gaps())
		}
	}

	if nodeType == string(schema.NodeColumns) {
		columns, ok := node["columns"].([]any)
		if !ok || len(columns) < 2 || len(columns) > 6 {
			v.report(childPath(path, "columns"), "columns containers require 2-6 column entries")
			return
		}
		for i, column := range columns {
			v.validateColumn(indexPath(childPath(path, "columns"), i), column, depth+1)
		}
		return
	}

	if nodeType == string(schema.NodeRow) {
		if count, ok := node["columnCount"]; ok {
			n, isNumber := asNumber(count)
			if !isNumber || n != math.Trunc(n) || n < 1 || n > 6 {
				v.report(childPath(path, "columnCount"), "must be an integer between 1 and 6")
			}
		}
	}

	children, ok := node["children"].([]any)
	if !ok || len(children) == 0 {
		v.report(childPath(path, "children"), "container children must be a non-empty array")
		return
	}
	for i, child := range children {
		v.validateNode(indexPath(childPath(path, "children"), i), child, depth+1)
	}
}

func (v *validator) validateColumn(path string, value any, depth int) {
	column, ok := value.(map[string]any)
	if !ok {
		v.report(path, "column must be an object")
		return
	}
	if id, ok := column["id"]; ok {
		if _, isString := id.(string); !isString {
			v.report(childPath(path, "id"), "must be a string")
		}
	}
	children, ok := column["children"].([]any)
	if !ok || len(children) == 0 {
		v.report(childPath(path, "children"), "column children must be a non-empty array")
		return
	}
	for i, child := range children {
		v.validateNode(indexPath(childPath(path, "children"), i), child, depth+1)
	}
}

func (v *validator) validateFallback(path string, element map[string]any) {
	fallback, ok := element["fallback"]
	if !ok {
		return
	}
	fallbackString, _ := fallback.(string)
	if !contains(schema.Fallbacks(), fallbackString) {
		v.reportEnum(childPath(path, "fallback"), fallback, schema.Fallbacks())
	}
}

// validateCondition shape-checks the condition sub-language recursively.
// Semantics are not evaluated here; the evaluator owns fail-open behaviour
// for anything that slips past authoring-time validation.
func (v *validator) validateCondition(path string, value any, depth int) {
	if depth > maxConditionDepth {
		v.report(path, "condition nesting exceeds the supported depth")
		return
	}

	if _, isBool := value.(bool); isBool {
		return
	}

	cond, ok := value.(map[string]any)
	if !ok {
		v.report(path, "condition must be a boolean or an object")
		return
	}

	op, _ := cond["op"].(string)
	if !schema.IsComparisonOp(op) && !schema.IsCombinatorOp(op) {
		v.reportEnum(childPath(path, "op"), cond["op"], schema.Ops())
		return
	}
	if schema.IsComparisonOp(op) {
		v.validateRef(path, cond)
	}

	switch op {
	case schema.OpEquals, schema.OpNotEquals:
		if _, ok := cond["value"]; !ok {
			v.report(childPath(path, "value"), fmt.Sprintf("%s conditions require a value", op))
		}
	case schema.OpIn, schema.OpNotIn:
		values, ok := cond["values"].([]any)
		if !ok || len(values) == 0 {
			v.report(childPath(path, "values"), fmt.Sprintf("%s conditions require a non-empty values array", op))
		}
	case schema.OpAnd, schema.OpOr:
		children, ok := cond["conditions"].([]any)
		if !ok || len(children) == 0 {
			v.report(childPath(path, "conditions"), fmt.Sprintf("%s conditions require a non-empty conditions array", op))
			return
		}
		for i, child := range children {
			v.validateCondition(indexPath(childPath(path, "conditions"), i), child, depth+1)
		}
	case schema.OpNot:
		child, ok := cond["condition"]
		if !ok {
			v.report(childPath(path, "condition"), "not conditions require a nested condition")
			return
		}
		v.validateCondition(childPath(path, "condition"), child, depth+1)
	}
}

func (v *validator) validateRef(path string, cond map[string]any) {
	ref, _ := cond["ref"].(string)
	if !schema.ValidRef(ref) {
		v.report(childPath(path, "ref"),
			"ref must be a bare field id or a context.<key> lookup")
	}
}

func (v *validator) checkString(element map[string]any, path, key string) {
	if value, ok := element[key]; ok {
		if _, isString := value.(string); !isString {
			v.report(childPath(path, key), "must be a string")
		}
	}
}

func (v *validator) checkBool(element map[string]any, path, key string) {
	if value, ok := element[key]; ok {
		if _, isBool := value.(bool); !isBool {
			v.report(childPath(path, key), "must be a boolean")
		}
	}
}

func (v *validator) checkNumber(element map[string]any, path, key string) {
	if value, ok := element[key]; ok {
		if _, isNumber := asNumber(value); !isNumber {
			v.report(childPath(path, key), "must be a number")
		}
	}
}

func (v *validator) checkInteger(element map[string]any, path, key string) {
	if value, ok := element[key]; ok {
		n, isNumber := asNumber(value)
		if !isNumber || n != math.Trunc(n) {
			v.report(childPath(path, key), "must be an integer")
		}
	}
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
