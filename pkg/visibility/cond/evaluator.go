// Package cond evaluates the schema condition language against form values
// and ambient context.
//
// The evaluator fails open by design: any structurally malformed condition,
// unknown operator, missing required field, unsupported ref, or exceeded
// nesting depth evaluates to true and emits a non-fatal diagnostic. A broken
// condition must never silently hide user-facing content.
package cond

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formview/pkg/diag"
	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/visibility"
)

// maxDepth bounds recursion through nested combinators.
const maxDepth = 32

// Evaluator implements visibility.Evaluator over schema.Condition trees.
type Evaluator struct {
	sink diag.Sink
}

// Option configures the evaluator.
type Option func(*Evaluator)

// WithDiagnostics routes fail-open events to the provided sink.
func WithDiagnostics(sink diag.Sink) Option {
	return func(e *Evaluator) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// New constructs an evaluator. Diagnostics are discarded unless a sink is
// injected.
func New(options ...Option) *Evaluator {
	e := &Evaluator{sink: diag.Nop{}}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

var _ visibility.Evaluator = (*Evaluator)(nil)

// Eval evaluates cond for the supplied context. An absent condition means no
// restriction. The returned error is always nil; the signature satisfies
// visibility.Evaluator so stricter evaluators can be swapped in.
func (e *Evaluator) Eval(elementID string, cond *schema.Condition, ctx visibility.Context) (bool, error) {
	if cond == nil {
		return true, nil
	}
	return e.eval(elementID, cond, ctx, 0), nil
}

func (e *Evaluator) eval(elementID string, cond *schema.Condition, ctx visibility.Context, depth int) bool {
	if cond == nil {
		return e.failOpen(elementID, "condition is nil")
	}
	if depth > maxDepth {
		return e.failOpen(elementID, "condition nesting exceeds the supported depth")
	}
	if cond.Malformed != "" {
		return e.failOpen(elementID, cond.Malformed)
	}
	if cond.Literal != nil {
		return *cond.Literal
	}

	switch cond.Op {
	case schema.OpEquals, schema.OpNotEquals:
		// A nil Value with HasValue set is an explicit null and compares
		// normally; without it the comparison target is simply missing.
		if cond.Value == nil && !cond.HasValue {
			return e.failOpen(elementID, cond.Op+" condition has no value")
		}
		value, ok := e.resolveRef(elementID, cond.Ref, ctx)
		if !ok {
			return true
		}
		equal := strictEqual(value, cond.Value)
		if cond.Op == schema.OpNotEquals {
			return !equal
		}
		return equal

	case schema.OpIn, schema.OpNotIn:
		if len(cond.Values) == 0 {
			return e.failOpen(elementID, cond.Op+" condition has no values")
		}
		value, ok := e.resolveRef(elementID, cond.Ref, ctx)
		if !ok {
			return true
		}
		member := false
		for _, candidate := range cond.Values {
			if strictEqual(value, candidate) {
				member = true
				break
			}
		}
		if cond.Op == schema.OpNotIn {
			return !member
		}
		return member

	case schema.OpExists:
		value, ok := e.resolveRef(elementID, cond.Ref, ctx)
		if !ok {
			return true
		}
		return exists(value)

	case schema.OpTruthy:
		value, ok := e.resolveRef(elementID, cond.Ref, ctx)
		if !ok {
			return true
		}
		return truthy(value)

	case schema.OpFalsy:
		value, ok := e.resolveRef(elementID, cond.Ref, ctx)
		if !ok {
			return true
		}
		return !truthy(value)

	case schema.OpAnd:
		if len(cond.Conditions) == 0 {
			return e.failOpen(elementID, "and condition has no children")
		}
		for _, child := range cond.Conditions {
			if !e.eval(elementID, child, ctx, depth+1) {
				return false
			}
		}
		return true

	case schema.OpOr:
		if len(cond.Conditions) == 0 {
			return e.failOpen(elementID, "or condition has no children")
		}
		for _, child := range cond.Conditions {
			if e.eval(elementID, child, ctx, depth+1) {
				return true
			}
		}
		return false

	case schema.OpNot:
		if cond.Condition == nil {
			return e.failOpen(elementID, "not condition has no child")
		}
		return !e.eval(elementID, cond.Condition, ctx, depth+1)

	default:
		return e.failOpen(elementID, "unknown condition op "+strconv.Quote(cond.Op))
	}
}

// resolveRef reads a ref from the context. ok=false means the ref itself was
// unsupported and the caller should fail open; an addressable-but-absent ref
// resolves to nil, which the operators treat normally.
func (e *Evaluator) resolveRef(elementID, ref string, ctx visibility.Context) (any, bool) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		e.failOpen(elementID, "condition ref is empty")
		return nil, false
	}
	if strings.HasPrefix(trimmed, schema.ContextRefPrefix) {
		key := trimmed[len(schema.ContextRefPrefix):]
		if key == "" || strings.Contains(key, ".") {
			e.failOpen(elementID, "unsupported context ref "+strconv.Quote(ref))
			return nil, false
		}
		return ctx.Extras[key], true
	}
	if strings.Contains(trimmed, ".") {
		e.failOpen(elementID, "unsupported dotted ref "+strconv.Quote(ref))
		return nil, false
	}
	return ctx.Values[trimmed], true
}

func (e *Evaluator) failOpen(elementID, reason string) bool {
	e.sink.Warn("condition fail-open", "element", elementID, "reason", reason)
	return true
}

// strictEqual compares scalars without cross-type coercion, except that all
// numeric representations compare by value so JSON-decoded float64 matches
// in-memory ints.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)
		return ok && an == bn
	}
	return a == b
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// exists reports whether a value is present: defined, non-nil, and for
// strings not empty after trimming.
func exists(value any) bool {
	if value == nil {
		return false
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
