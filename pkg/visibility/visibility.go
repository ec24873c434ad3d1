// Package visibility combines condition evaluation with fallback policy to
// decide whether an element renders, renders disabled, or is omitted.
package visibility

import (
	"github.com/goliatone/go-formview/pkg/schema"
)

// Context provides inputs to an Evaluator. Values holds current form state
// keyed by field id; Extras holds ambient context read through context.<key>
// refs, such as whether the form was submitted.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// Evaluator decides whether a condition holds for the supplied context.
// Implementations are expected to fail open: a condition that cannot be
// trusted evaluates to true so broken rules never hide user-facing content.
type Evaluator interface {
	Eval(elementID string, cond *schema.Condition, ctx Context) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(elementID string, cond *schema.Condition, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(elementID string, cond *schema.Condition, ctx Context) (bool, error) {
	return fn(elementID, cond, ctx)
}

// Resolution is the render/disable decision for one element. It gates three
// things downstream: presence in the rendered tree, required-field
// validation, and inclusion in the submission payload.
type Resolution struct {
	ShouldRender bool
	Disabled     bool
}

// Resolve applies the element's fallback policy to the evaluated condition.
// A true condition renders normally. A false condition renders inert when the
// fallback is disabled, and is omitted when the fallback is hidden (the
// default). Evaluator errors resolve to visible per the fail-open policy.
func Resolve(evaluator Evaluator, elementID string, cond *schema.Condition, fallback schema.Fallback, ctx Context) Resolution {
	visible := true
	if evaluator != nil {
		ok, err := evaluator.Eval(elementID, cond, ctx)
		if err == nil {
			visible = ok
		}
	}

	if visible {
		return Resolution{ShouldRender: true}
	}
	if fallback == schema.FallbackDisabled {
		return Resolution{ShouldRender: true, Disabled: true}
	}
	return Resolution{}
}
