package outline

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formview/pkg/form"
	"github.com/goliatone/go-formview/pkg/render"
	"github.com/goliatone/go-formview/pkg/schema"
)

func outlineDoc() schema.Document {
	return schema.Document{
		Version: "1",
		UISchema: schema.Schema{
			Title:       "Signup",
			Description: "Create an account.",
			Layout: []schema.Node{
				{
					Kind:  schema.NodeSection,
					Title: "Profile",
					Children: []schema.Node{
						{Kind: schema.NodeField, Field: &schema.Field{ID: "name", Label: "Name", Type: schema.FieldText, Required: true}},
						{
							Kind: schema.NodeColumns,
							Columns: []schema.Column{
								{Children: []schema.Node{{Kind: schema.NodeField, Field: &schema.Field{ID: "city", Label: "City", Type: schema.FieldText}}}},
								{Children: []schema.Node{{Kind: schema.NodeField, Field: &schema.Field{ID: "zip", Label: "Zip", Type: schema.FieldText}}}},
							},
						},
					},
				},
			},
			Actions: []schema.Action{{ID: "send", Label: "Send", Type: schema.ActionSubmit}},
		},
	}
}

func renderOutline(t *testing.T, doc schema.Document, opts render.Options) string {
	t.Helper()
	out, err := New().Render(context.Background(), form.New(doc), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return string(out)
}

func TestRenderOutline(t *testing.T) {
	t.Parallel()

	got := renderOutline(t, outlineDoc(), render.Options{})

	for _, want := range []string{
		"form: Signup",
		"description: Create an account.",
		`section "Profile"`,
		"field name (text) required",
		"columns [2]",
		"field city (text)",
		"field zip (text)",
		"actions:",
		`submit "Send"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderOutlineMarksVisibility(t *testing.T) {
	t.Parallel()

	doc := schema.Document{
		UISchema: schema.Schema{
			Title: "T",
			Fields: []schema.Field{
				{ID: "plan", Label: "Plan", Type: schema.FieldText},
				{
					ID: "company", Label: "Company", Type: schema.FieldText,
					Condition: &schema.Condition{Op: schema.OpEquals, Ref: "plan", Value: "pro"},
				},
				{
					ID: "coupon", Label: "Coupon", Type: schema.FieldText,
					Condition: &schema.Condition{Op: schema.OpEquals, Ref: "plan", Value: "pro"},
					Fallback:  schema.FallbackDisabled,
				},
			},
		},
	}

	got := renderOutline(t, doc, render.Options{})
	if !strings.Contains(got, "field company (text) [hidden]") {
		t.Fatalf("hidden marker missing:\n%s", got)
	}
	if !strings.Contains(got, "field coupon (text) [disabled]") {
		t.Fatalf("disabled marker missing:\n%s", got)
	}

	// Prefilled values flip the decision.
	got = renderOutline(t, doc, render.Options{Values: map[string]any{"plan": "pro"}})
	if strings.Contains(got, "[hidden]") || strings.Contains(got, "[disabled]") {
		t.Fatalf("satisfied conditions still marked:\n%s", got)
	}
}

// Options.Extras feed context.<key> refs the same way Options.Values feed
// field refs.
func TestRenderOutlineExtrasSeedContext(t *testing.T) {
	t.Parallel()

	doc := schema.Document{
		UISchema: schema.Schema{
			Title: "T",
			Fields: []schema.Field{
				{
					ID: "debug", Label: "Debug", Type: schema.FieldText,
					Condition: &schema.Condition{Op: schema.OpEquals, Ref: "context.mode", Value: "expert"},
				},
			},
		},
	}

	got := renderOutline(t, doc, render.Options{})
	if !strings.Contains(got, "field debug (text) [hidden]") {
		t.Fatalf("context-gated field not hidden:\n%s", got)
	}

	got = renderOutline(t, doc, render.Options{Extras: map[string]any{"mode": "expert"}})
	if strings.Contains(got, "[hidden]") {
		t.Fatalf("extras not applied to context:\n%s", got)
	}
}

func TestRenderOutlineAdvisoryAndEmpty(t *testing.T) {
	t.Parallel()

	got := renderOutline(t, schema.Document{UISchema: schema.Schema{Title: "T"}}, render.Options{
		Advisory: "legacy schema",
	})
	if !strings.Contains(got, "advisory: legacy schema") {
		t.Fatalf("advisory missing:\n%s", got)
	}
	if !strings.Contains(got, "(empty layout)") {
		t.Fatalf("empty layout marker missing:\n%s", got)
	}
}
