package tui

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formview/pkg/diag"
	"github.com/goliatone/go-formview/pkg/form"
	"github.com/goliatone/go-formview/pkg/render"
	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/submit"
)

// scriptDriver replays queued answers so render logic is testable without a
// terminal.
type scriptDriver struct {
	t        *testing.T
	inputs   []string
	confirms []bool
	selects  []int
	texts    []string
	infos    []string
}

func (d *scriptDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		d.t.Fatalf("unexpected Input prompt: %q", cfg.Message)
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func (d *scriptDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		d.t.Fatalf("unexpected Confirm prompt: %q", cfg.Message)
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		d.t.Fatalf("unexpected Select prompt: %q", cfg.Message)
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	if len(d.texts) == 0 {
		d.t.Fatalf("unexpected TextArea prompt: %q", cfg.Message)
	}
	out := d.texts[0]
	d.texts = d.texts[1:]
	return out, nil
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func signupDoc() schema.Document {
	return schema.Document{
		Version: "1",
		UISchema: schema.Schema{
			Title: "Signup",
			Fields: []schema.Field{
				{ID: "name", Label: "Name", Type: schema.FieldText, Required: true},
				{ID: "age", Label: "Age", Type: schema.FieldNumber},
				{ID: "role", Label: "Role", Type: schema.FieldSelect, Options: []any{"admin", "editor"}},
				{ID: "tos", Label: "Terms", Type: schema.FieldCheckbox},
			},
		},
	}
}

func newTestRenderer(t *testing.T, driver PromptDriver, options ...Option) *Renderer {
	t.Helper()
	r, err := New(append([]Option{WithPromptDriver(driver)}, options...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRenderCollectsPayload(t *testing.T) {
	t.Parallel()

	driver := &scriptDriver{
		t:        t,
		inputs:   []string{"Ada", "30"},
		selects:  []int{1},
		confirms: []bool{true, true}, // tos checkbox, submit confirm
	}
	r := newTestRenderer(t, driver)

	out, err := r.Render(context.Background(), form.New(signupDoc()), render.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	want := map[string]any{
		"name": "Ada",
		"age":  float64(30),
		"role": "editor",
		"tos":  true,
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderRepromptsInvalidInput(t *testing.T) {
	t.Parallel()

	driver := &scriptDriver{
		t:        t,
		inputs:   []string{"", "Ada", "", ""}, // name twice, age empty, then accepted
		selects:  []int{0},
		confirms: []bool{false, true}, // tos, submit
	}
	r := newTestRenderer(t, driver)

	if _, err := r.Render(context.Background(), form.New(signupDoc()), render.Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	joined := strings.Join(driver.infos, "\n")
	if !strings.Contains(joined, "Name is required") {
		t.Fatalf("validation message not surfaced:\n%s", joined)
	}
}

func TestRenderSkipsHiddenFields(t *testing.T) {
	t.Parallel()

	doc := schema.Document{
		UISchema: schema.Schema{
			Title: "T",
			Fields: []schema.Field{
				{ID: "a", Label: "A", Type: schema.FieldText},
				{
					ID: "b", Label: "B", Type: schema.FieldText, Required: true,
					Condition: &schema.Condition{Op: schema.OpEquals, Ref: "a", Value: "magic"},
				},
			},
		},
	}
	driver := &scriptDriver{
		t:        t,
		inputs:   []string{"plain"}, // only field a prompts
		confirms: []bool{true},
	}
	r := newTestRenderer(t, driver)

	out, err := r.Render(context.Background(), form.New(doc), render.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), `"b"`) {
		t.Fatalf("hidden field leaked into payload: %s", out)
	}
}

// Options.Extras seed ambient context so fields gated on context.<key> refs
// prompt when the host supplies the key.
func TestRenderExtrasSeedContext(t *testing.T) {
	t.Parallel()

	doc := schema.Document{
		UISchema: schema.Schema{
			Title: "T",
			Fields: []schema.Field{
				{ID: "a", Label: "A", Type: schema.FieldText},
				{
					ID: "b", Label: "B", Type: schema.FieldText,
					Condition: &schema.Condition{Op: schema.OpEquals, Ref: "context.mode", Value: "expert"},
				},
			},
		},
	}
	driver := &scriptDriver{
		t:        t,
		inputs:   []string{"one", "two"}, // both fields prompt
		confirms: []bool{true},
	}
	r := newTestRenderer(t, driver)

	out, err := r.Render(context.Background(), form.New(doc), render.Options{
		Extras: map[string]any{"mode": "expert"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), `"b"`) {
		t.Fatalf("context-gated field missing from payload: %s", out)
	}
}

func TestRenderDeclinedSubmitAborts(t *testing.T) {
	t.Parallel()

	driver := &scriptDriver{
		t:        t,
		inputs:   []string{"Ada", ""},
		selects:  []int{0},
		confirms: []bool{false, false}, // tos, then decline submit
	}
	r := newTestRenderer(t, driver)

	_, err := r.Render(context.Background(), form.New(signupDoc()), render.Options{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("declined submit: got %v, want ErrAborted", err)
	}
}

func TestRenderMessageFormatDelivers(t *testing.T) {
	t.Parallel()

	doc := schema.Document{
		SubmitMessage: "Entry:\n{{ json }}",
		UISchema: schema.Schema{
			Title:  "T",
			Fields: []schema.Field{{ID: "name", Label: "Name", Type: schema.FieldText}},
		},
	}

	var delivered []string
	sink := submit.SinkFunc(func(_ context.Context, text string) error {
		delivered = append(delivered, text)
		return nil
	})

	driver := &scriptDriver{t: t, inputs: []string{"Ada"}, confirms: []bool{true}}
	r := newTestRenderer(t, driver,
		WithOutputFormat(OutputFormatMessage),
		WithMessageSink(sink),
	)

	out, err := r.Render(context.Background(), form.New(doc), render.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out), "Entry:\n") {
		t.Fatalf("message output = %q", out)
	}
	if len(delivered) != 1 || !strings.Contains(delivered[0], `"name": "Ada"`) {
		t.Fatalf("delivery missing: %v", delivered)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("content type = %q", r.ContentType())
	}
}

// submitToAssistant=false keeps the payload local.
func TestRenderHonorsSubmitOptOut(t *testing.T) {
	t.Parallel()

	no := false
	doc := schema.Document{
		SubmitToAssistant: &no,
		UISchema: schema.Schema{
			Title:  "T",
			Fields: []schema.Field{{ID: "name", Label: "Name", Type: schema.FieldText}},
		},
	}

	calls := 0
	sink := submit.SinkFunc(func(context.Context, string) error {
		calls++
		return nil
	})

	driver := &scriptDriver{t: t, inputs: []string{"Ada"}, confirms: []bool{true}}
	r := newTestRenderer(t, driver, WithMessageSink(sink))

	if _, err := r.Render(context.Background(), form.New(doc), render.Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if calls != 0 {
		t.Fatalf("sink called %d times despite opt-out", calls)
	}
}

func TestRenderEmptyLayout(t *testing.T) {
	t.Parallel()

	driver := &scriptDriver{t: t}
	r := newTestRenderer(t, driver)

	doc := schema.Document{UISchema: schema.Schema{Title: "T"}}
	_, err := r.Render(context.Background(), form.New(doc), render.Options{})
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("empty layout: got %v, want ErrNoContent", err)
	}
}

// Prefill values for unknown ids are ignored with a diagnostic instead of
// failing the run.
func TestRenderPrefillUnknownIDIgnored(t *testing.T) {
	t.Parallel()

	capture := &diag.Capture{}
	driver := &scriptDriver{
		t:        t,
		inputs:   []string{"Ada", ""},
		selects:  []int{0},
		confirms: []bool{true, true},
	}
	r := newTestRenderer(t, driver, WithDiagnostics(capture))

	_, err := r.Render(context.Background(), form.New(signupDoc()), render.Options{
		Values: map[string]any{"bogus": "x"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !slices.Contains(capture.Names(), "prefill ignored") {
		t.Fatalf("missing diagnostic, got %v", capture.Names())
	}
}
