package form

import (
	"testing"

	"github.com/goliatone/go-formview/pkg/schema"
)

func sessionDoc() schema.Document {
	return schema.Document{
		Version: "1",
		UISchema: schema.Schema{
			Title: "Signup",
			Fields: []schema.Field{
				{ID: "plan", Label: "Plan", Type: schema.FieldSelect, Options: []any{"free", "pro"}, Default: "free"},
				{
					ID: "company", Label: "Company", Type: schema.FieldText, Required: true,
					Condition: &schema.Condition{Op: schema.OpEquals, Ref: "plan", Value: "pro"},
				},
				{
					ID: "coupon", Label: "Coupon", Type: schema.FieldText,
					Condition: &schema.Condition{Op: schema.OpEquals, Ref: "plan", Value: "pro"},
					Fallback:  schema.FallbackDisabled,
				},
			},
			Actions: []schema.Action{
				{ID: "send", Label: "Send", Type: schema.ActionSubmit},
			},
		},
	}
}

func TestNewResolvesFieldsAndDefaults(t *testing.T) {
	t.Parallel()

	f := New(sessionDoc())
	if len(f.Nodes()) != 1 {
		t.Fatalf("fields-only schema must resolve to one implicit container, got %d", len(f.Nodes()))
	}
	if len(f.Fields()) != 3 {
		t.Fatalf("fields = %d, want 3", len(f.Fields()))
	}
	if got, _ := f.Value("plan"); got != "free" {
		t.Fatalf("default lost: %v", got)
	}
}

func TestVisibilityTransition(t *testing.T) {
	t.Parallel()

	f := New(sessionDoc())
	company := f.Fields()[1]

	if res := f.ResolveField(company); res.ShouldRender {
		t.Fatal("company must be hidden on the free plan")
	}
	if err := f.SetValue("plan", "pro"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if res := f.ResolveField(company); !res.ShouldRender {
		t.Fatal("company must appear on the pro plan")
	}
	if err := f.SetValue("plan", "free"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if res := f.ResolveField(company); res.ShouldRender {
		t.Fatal("company must hide again on the free plan")
	}
}

func TestDisabledFallbackRendersInert(t *testing.T) {
	t.Parallel()

	f := New(sessionDoc())
	coupon := f.Fields()[2]
	res := f.ResolveField(coupon)
	if !res.ShouldRender || !res.Disabled {
		t.Fatalf("coupon must render disabled on the free plan: %+v", res)
	}
}

// Hidden fields never block validity, even when required.
func TestValidateSkipsHiddenAndDisabled(t *testing.T) {
	t.Parallel()

	f := New(sessionDoc())
	if issues := f.Validate(); len(issues) != 0 {
		t.Fatalf("hidden required field leaked into validation: %+v", issues)
	}

	if err := f.SetValue("plan", "pro"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	issues := f.Validate()
	if len(issues) != 1 || issues[0].FieldID != "company" {
		t.Fatalf("visible required field must validate: %+v", issues)
	}
}

func TestContextSubmittedFlag(t *testing.T) {
	t.Parallel()

	doc := sessionDoc()
	doc.UISchema.Fields = append(doc.UISchema.Fields, schema.Field{
		ID: "thanks", Label: "Thanks", Type: schema.FieldText,
		Condition: &schema.Condition{Op: schema.OpTruthy, Ref: "context.submitted"},
	})

	f := New(doc)
	thanks := f.Fields()[3]
	if res := f.ResolveField(thanks); res.ShouldRender {
		t.Fatal("submitted-gated field must start hidden")
	}
	f.SetSubmitted(true)
	if res := f.ResolveField(thanks); !res.ShouldRender {
		t.Fatal("submitted-gated field must appear after submission")
	}
	f.Reset()
	if res := f.ResolveField(thanks); res.ShouldRender {
		t.Fatal("Reset must clear the submitted flag")
	}
}

func TestWithExtraFeedsContextRefs(t *testing.T) {
	t.Parallel()

	doc := sessionDoc()
	doc.UISchema.Fields = []schema.Field{{
		ID: "adminOnly", Label: "Admin", Type: schema.FieldText,
		Condition: &schema.Condition{Op: schema.OpEquals, Ref: "context.role", Value: "admin"},
	}}

	f := New(doc, WithExtra("role", "admin"))
	if res := f.ResolveField(f.Fields()[0]); !res.ShouldRender {
		t.Fatal("context extra must satisfy the condition")
	}

	f = New(doc, WithExtra("role", "guest"))
	if res := f.ResolveField(f.Fields()[0]); res.ShouldRender {
		t.Fatal("mismatched context extra must hide the field")
	}
}

func TestResolutionsCoversEveryField(t *testing.T) {
	t.Parallel()

	f := New(sessionDoc())
	resolutions := f.Resolutions()
	if len(resolutions) != len(f.Fields()) {
		t.Fatalf("resolutions = %d, want %d", len(resolutions), len(f.Fields()))
	}
}
