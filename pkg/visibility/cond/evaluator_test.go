package cond

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-formview/pkg/diag"
	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/visibility"
)

func boolPtr(v bool) *bool { return &v }

func eval(t *testing.T, cond *schema.Condition, ctx visibility.Context) bool {
	t.Helper()
	got, err := New().Eval("test", cond, ctx)
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	return got
}

func TestEvalLiterals(t *testing.T) {
	t.Parallel()

	if !eval(t, nil, visibility.Context{}) {
		t.Fatal("absent condition must be true")
	}
	if !eval(t, &schema.Condition{Literal: boolPtr(true)}, visibility.Context{}) {
		t.Fatal("literal true must be true")
	}
	if eval(t, &schema.Condition{Literal: boolPtr(false)}, visibility.Context{}) {
		t.Fatal("literal false must be false")
	}
}

func TestEvalComparisons(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{
		Values: map[string]any{
			"plan":  "pro",
			"count": float64(3),
			"name":  "   ",
			"flag":  true,
		},
		Extras: map[string]any{"submitted": true},
	}

	cases := []struct {
		name string
		cond *schema.Condition
		want bool
	}{
		{name: "equals match", cond: &schema.Condition{Op: schema.OpEquals, Ref: "plan", Value: "pro"}, want: true},
		{name: "equals mismatch", cond: &schema.Condition{Op: schema.OpEquals, Ref: "plan", Value: "free"}, want: false},
		{name: "equals no string coercion", cond: &schema.Condition{Op: schema.OpEquals, Ref: "count", Value: "3"}, want: false},
		{name: "equals numeric cross-type", cond: &schema.Condition{Op: schema.OpEquals, Ref: "count", Value: 3}, want: true},
		{name: "notEquals", cond: &schema.Condition{Op: schema.OpNotEquals, Ref: "plan", Value: "free"}, want: true},
		{name: "in member", cond: &schema.Condition{Op: schema.OpIn, Ref: "plan", Values: []any{"pro", "team"}}, want: true},
		{name: "in non-member", cond: &schema.Condition{Op: schema.OpIn, Ref: "plan", Values: []any{"free"}}, want: false},
		{name: "notIn", cond: &schema.Condition{Op: schema.OpNotIn, Ref: "plan", Values: []any{"free"}}, want: true},
		{name: "exists present", cond: &schema.Condition{Op: schema.OpExists, Ref: "plan"}, want: true},
		{name: "exists whitespace string", cond: &schema.Condition{Op: schema.OpExists, Ref: "name"}, want: false},
		{name: "exists absent", cond: &schema.Condition{Op: schema.OpExists, Ref: "missing"}, want: false},
		{name: "truthy bool", cond: &schema.Condition{Op: schema.OpTruthy, Ref: "flag"}, want: true},
		{name: "truthy whitespace string", cond: &schema.Condition{Op: schema.OpTruthy, Ref: "name"}, want: true},
		{name: "falsy absent", cond: &schema.Condition{Op: schema.OpFalsy, Ref: "missing"}, want: true},
		{name: "context ref", cond: &schema.Condition{Op: schema.OpTruthy, Ref: "context.submitted"}, want: true},
		{name: "context ref absent", cond: &schema.Condition{Op: schema.OpExists, Ref: "context.nothing"}, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := eval(t, tc.cond, ctx); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvalCombinators(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{Values: map[string]any{"a": "yes", "b": ""}}
	aYes := &schema.Condition{Op: schema.OpEquals, Ref: "a", Value: "yes"}
	bTruthy := &schema.Condition{Op: schema.OpTruthy, Ref: "b"}

	cases := []struct {
		name string
		cond *schema.Condition
		want bool
	}{
		{name: "and short-circuits false", cond: &schema.Condition{Op: schema.OpAnd, Conditions: []*schema.Condition{aYes, bTruthy}}, want: false},
		{name: "and all true", cond: &schema.Condition{Op: schema.OpAnd, Conditions: []*schema.Condition{aYes, aYes}}, want: true},
		{name: "or one true", cond: &schema.Condition{Op: schema.OpOr, Conditions: []*schema.Condition{bTruthy, aYes}}, want: true},
		{name: "or all false", cond: &schema.Condition{Op: schema.OpOr, Conditions: []*schema.Condition{bTruthy, bTruthy}}, want: false},
		{name: "not inverts", cond: &schema.Condition{Op: schema.OpNot, Condition: bTruthy}, want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := eval(t, tc.cond, ctx); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

// Every malformed shape evaluates to true and records a diagnostic: a broken
// rule must never hide content silently.
func TestEvalFailOpen(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cond *schema.Condition
	}{
		{name: "malformed decode", cond: &schema.Condition{Malformed: "condition is null"}},
		{name: "unknown op", cond: &schema.Condition{Op: "matches", Ref: "a"}},
		{name: "empty and", cond: &schema.Condition{Op: schema.OpAnd}},
		{name: "empty or", cond: &schema.Condition{Op: schema.OpOr}},
		{name: "not without child", cond: &schema.Condition{Op: schema.OpNot}},
		{name: "in without values", cond: &schema.Condition{Op: schema.OpIn, Ref: "a"}},
		{name: "equals without value", cond: &schema.Condition{Op: schema.OpEquals, Ref: "a"}},
		{name: "notEquals without value", cond: &schema.Condition{Op: schema.OpNotEquals, Ref: "a"}},
		{name: "empty ref", cond: &schema.Condition{Op: schema.OpEquals, Value: 1}},
		{name: "dotted ref", cond: &schema.Condition{Op: schema.OpTruthy, Ref: "a.b"}},
		{name: "dotted context ref", cond: &schema.Condition{Op: schema.OpTruthy, Ref: "context.a.b"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			capture := &diag.Capture{}
			e := New(WithDiagnostics(capture))
			got, err := e.Eval("elem", tc.cond, visibility.Context{})
			if err != nil {
				t.Fatalf("Eval returned error: %v", err)
			}
			if !got {
				t.Fatal("malformed condition must evaluate to true")
			}
			if capture.Len() == 0 {
				t.Fatal("fail-open must emit a diagnostic")
			}
			if capture.Events()[0].Name != "condition fail-open" {
				t.Fatalf("unexpected event %q", capture.Events()[0].Name)
			}
		})
	}
}

// An equals without a value key must not compare the ref against nil: when
// the ref holds something, nil-comparison would quietly hide the element.
func TestEvalEqualsMissingValueFailsOpen(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{Values: map[string]any{"a": "x"}}

	for _, op := range []string{schema.OpEquals, schema.OpNotEquals} {
		var cond schema.Condition
		if err := json.Unmarshal([]byte(`{"op":"`+op+`","ref":"a"}`), &cond); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		capture := &diag.Capture{}
		got, err := New(WithDiagnostics(capture)).Eval("f", &cond, ctx)
		if err != nil {
			t.Fatalf("Eval returned error: %v", err)
		}
		if !got {
			t.Fatalf("%s without value must fail open", op)
		}
		if capture.Len() == 0 {
			t.Fatalf("%s without value must emit a diagnostic", op)
		}
	}

	// An explicit null is a value and compares normally.
	var explicit schema.Condition
	if err := json.Unmarshal([]byte(`{"op":"equals","ref":"a","value":null}`), &explicit); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if eval(t, &explicit, ctx) {
		t.Fatal("equals null against a present value must be false")
	}
	if !eval(t, &explicit, visibility.Context{}) {
		t.Fatal("equals null against an absent value must be true")
	}
}

func TestEvalDepthBound(t *testing.T) {
	t.Parallel()

	cond := &schema.Condition{Literal: boolPtr(false)}
	for i := 0; i < maxDepth+5; i++ {
		cond = &schema.Condition{Op: schema.OpAnd, Conditions: []*schema.Condition{cond}}
	}

	capture := &diag.Capture{}
	got, err := New(WithDiagnostics(capture)).Eval("deep", cond, visibility.Context{})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !got {
		t.Fatal("over-deep condition must fail open")
	}
	if capture.Len() == 0 {
		t.Fatal("depth bound must emit a diagnostic")
	}
}

// Flipping a referenced value flips the decision on the next evaluation; the
// evaluator holds no state between calls.
func TestEvalReactsToValueChanges(t *testing.T) {
	t.Parallel()

	cond := &schema.Condition{Op: schema.OpEquals, Ref: "a", Value: "yes"}
	e := New()

	yes, _ := e.Eval("f", cond, visibility.Context{Values: map[string]any{"a": "yes"}})
	no, _ := e.Eval("f", cond, visibility.Context{Values: map[string]any{"a": "no"}})
	if !yes || no {
		t.Fatalf("transition broken: yes=%v no=%v", yes, no)
	}
}
