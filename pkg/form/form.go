package form

import (
	"github.com/goliatone/go-formview/pkg/diag"
	"github.com/goliatone/go-formview/pkg/layout"
	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/visibility"
	"github.com/goliatone/go-formview/pkg/visibility/cond"
)

// Form is a live session over a validated document: the resolved layout, the
// ordered field list, and mutable state. Every query re-runs visibility and
// validation from scratch; there is no memoization to invalidate.
type Form struct {
	doc       schema.Document
	nodes     []schema.Node
	fields    []schema.Field
	state     *State
	evaluator visibility.Evaluator
	sink      diag.Sink
	extras    map[string]any
	submitted bool
}

// Option configures a Form.
type Option func(*Form)

// WithEvaluator swaps the condition evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(f *Form) {
		if evaluator != nil {
			f.evaluator = evaluator
		}
	}
}

// WithDiagnostics routes fail-open and misuse events to the provided sink.
// The default evaluator is rebuilt around the sink unless one was injected.
func WithDiagnostics(sink diag.Sink) Option {
	return func(f *Form) {
		if sink != nil {
			f.sink = sink
		}
	}
}

// WithExtra seeds an ambient context value readable through context.<key>
// refs.
func WithExtra(key string, value any) Option {
	return func(f *Form) {
		f.extras[key] = value
	}
}

// New builds a session from a validated document: resolves the layout,
// collects the ordered field list, and seeds state from defaults.
func New(doc schema.Document, options ...Option) *Form {
	f := &Form{
		doc:    doc,
		sink:   diag.Nop{},
		extras: map[string]any{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.evaluator == nil {
		f.evaluator = cond.New(cond.WithDiagnostics(f.sink))
	}

	f.nodes = layout.Resolve(doc.UISchema)
	f.fields = layout.CollectFields(f.nodes)
	f.state = NewState(f.fields)
	return f
}

// Document returns the underlying envelope.
func (f *Form) Document() schema.Document { return f.doc }

// Schema returns the underlying UI schema.
func (f *Form) Schema() schema.Schema { return f.doc.UISchema }

// Nodes returns the resolved layout tree. Empty means there is no renderable
// content.
func (f *Form) Nodes() []schema.Node { return f.nodes }

// Fields returns the flattened field list in authoritative order.
func (f *Form) Fields() []schema.Field { return f.fields }

// Actions returns the schema's actions.
func (f *Form) Actions() []schema.Action { return f.doc.UISchema.Actions }

// Values returns a copy of the current form state.
func (f *Form) Values() map[string]any { return f.state.Values() }

// SetValue updates one field's value.
func (f *Form) SetValue(id string, value any) error {
	return f.state.Set(id, value)
}

// Value returns one field's current value.
func (f *Form) Value(id string) (any, bool) { return f.state.Get(id) }

// Reset restores every field to its default and clears the submitted flag.
func (f *Form) Reset() {
	f.state.Reset()
	f.submitted = false
}

// SetSubmitted flips the ambient submitted flag conditions can reference as
// context.submitted.
func (f *Form) SetSubmitted(submitted bool) { f.submitted = submitted }

// SetExtra seeds or updates an ambient context value after construction;
// renderers use it to apply per-request extras.
func (f *Form) SetExtra(key string, value any) { f.extras[key] = value }

// Context assembles the evaluation context from current values and ambient
// extras.
func (f *Form) Context() visibility.Context {
	extras := make(map[string]any, len(f.extras)+1)
	for k, v := range f.extras {
		extras[k] = v
	}
	extras["submitted"] = f.submitted
	return visibility.Context{Values: f.state.Values(), Extras: extras}
}

// ResolveField computes the render/disable decision for one field.
func (f *Form) ResolveField(field schema.Field) visibility.Resolution {
	return visibility.Resolve(f.evaluator, field.ID, field.Condition, field.Fallback, f.Context())
}

// ResolveAction computes the render/disable decision for one action.
func (f *Form) ResolveAction(action schema.Action) visibility.Resolution {
	return visibility.Resolve(f.evaluator, action.ID, action.Condition, action.Fallback, f.Context())
}

// Resolutions runs a full visibility pass over every field.
func (f *Form) Resolutions() map[string]visibility.Resolution {
	out := make(map[string]visibility.Resolution, len(f.fields))
	ctx := f.Context()
	for _, field := range f.fields {
		out[field.ID] = visibility.Resolve(f.evaluator, field.ID, field.Condition, field.Fallback, ctx)
	}
	return out
}

// Validate runs field validation over every field that currently renders
// enabled. Hidden fields never contribute issues regardless of their
// required flag; disabled fields render but are excluded too.
func (f *Form) Validate() []Issue {
	resolutions := f.Resolutions()
	var issues []Issue
	for _, field := range f.fields {
		res := resolutions[field.ID]
		if !res.ShouldRender || res.Disabled {
			continue
		}
		value, _ := f.state.Get(field.ID)
		if issue := ValidateField(field, value); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}
