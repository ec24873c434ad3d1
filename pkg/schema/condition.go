package schema

import (
	"encoding/json"
	"strings"
)

// Condition operators. The language is closed and non-Turing-complete:
// comparisons carry a ref plus literal value(s), combinators carry nested
// conditions.
const (
	OpEquals    = "equals"
	OpNotEquals = "notEquals"
	OpIn        = "in"
	OpNotIn     = "notIn"
	OpExists    = "exists"
	OpTruthy    = "truthy"
	OpFalsy     = "falsy"
	OpAnd       = "and"
	OpOr        = "or"
	OpNot       = "not"
)

// Ops lists every valid condition operator.
func Ops() []string {
	return []string{
		OpEquals, OpNotEquals, OpIn, OpNotIn, OpExists,
		OpTruthy, OpFalsy, OpAnd, OpOr, OpNot,
	}
}

// ContextRefPrefix marks refs that read from ambient context rather than form
// values, e.g. "context.submitted".
const ContextRefPrefix = "context."

// Condition is one node of the visibility DSL: either a boolean literal or a
// tagged operator object. Decoding never fails; unrecognized shapes are kept
// with Malformed set so the evaluator can apply its fail-open policy instead
// of silently hiding content.
type Condition struct {
	// Literal is set when the condition was a bare JSON boolean.
	Literal *bool

	Op     string
	Ref    string
	Value  any
	Values []any

	// HasValue records whether the wire shape carried a value key at all, so
	// an explicit null stays distinguishable from a missing value. Conditions
	// built in code may leave it unset when Value is non-nil.
	HasValue bool

	// Conditions holds the children of and/or; Condition the child of not.
	Conditions []*Condition
	Condition  *Condition

	// Malformed carries the reason decoding could not recognize the shape.
	Malformed string
}

type conditionJSON struct {
	Op         string          `json:"op"`
	Ref        string          `json:"ref"`
	Value      json.RawMessage `json:"value"`
	Values     []any           `json:"values"`
	Conditions []*Condition    `json:"conditions"`
	Condition  *Condition      `json:"condition"`
}

// UnmarshalJSON decodes a boolean literal or an operator object. Structural
// problems are recorded, not returned, so a broken condition travels through
// the pipeline and fails open at evaluation time.
func (c *Condition) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch trimmed {
	case "true":
		v := true
		*c = Condition{Literal: &v}
		return nil
	case "false":
		v := false
		*c = Condition{Literal: &v}
		return nil
	case "null":
		*c = Condition{Malformed: "condition is null"}
		return nil
	}

	if !strings.HasPrefix(trimmed, "{") {
		*c = Condition{Malformed: "condition must be a boolean or an object"}
		return nil
	}

	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		*c = Condition{Malformed: "condition object does not decode: " + err.Error()}
		return nil
	}

	out := Condition{
		Op:         strings.TrimSpace(raw.Op),
		Ref:        raw.Ref,
		Values:     raw.Values,
		Conditions: raw.Conditions,
		Condition:  raw.Condition,
	}
	if len(raw.Value) > 0 {
		out.HasValue = true
		var value any
		if err := json.Unmarshal(raw.Value, &value); err == nil {
			out.Value = value
		}
	}
	if out.Op == "" {
		out.Malformed = "condition object is missing op"
	}
	*c = out
	return nil
}

// MarshalJSON re-emits the condition in its wire shape.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c.Literal != nil {
		return json.Marshal(*c.Literal)
	}
	out := map[string]any{"op": c.Op}
	if c.Ref != "" {
		out["ref"] = c.Ref
	}
	if c.Value != nil || c.HasValue {
		out["value"] = c.Value
	}
	if len(c.Values) > 0 {
		out["values"] = c.Values
	}
	if len(c.Conditions) > 0 {
		out["conditions"] = c.Conditions
	}
	if c.Condition != nil {
		out["condition"] = c.Condition
	}
	return json.Marshal(out)
}

// IsComparisonOp reports whether the op reads a ref.
func IsComparisonOp(op string) bool {
	switch op {
	case OpEquals, OpNotEquals, OpIn, OpNotIn, OpExists, OpTruthy, OpFalsy:
		return true
	default:
		return false
	}
}

// IsCombinatorOp reports whether the op nests other conditions.
func IsCombinatorOp(op string) bool {
	switch op {
	case OpAnd, OpOr, OpNot:
		return true
	default:
		return false
	}
}

// ValidRef reports whether a ref is addressable: a bare field id or a
// context.<key> lookup. Dotted refs outside the context namespace are
// unsupported.
func ValidRef(ref string) bool {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, ContextRefPrefix) {
		key := trimmed[len(ContextRefPrefix):]
		return key != "" && !strings.Contains(key, ".")
	}
	return !strings.Contains(trimmed, ".")
}
