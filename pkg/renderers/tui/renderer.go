// Package tui renders a form session as an interactive terminal run: it
// walks the resolved layout, prompts visible fields, validates inline, and
// drives submission through the message sink.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formview/pkg/diag"
	"github.com/goliatone/go-formview/pkg/form"
	"github.com/goliatone/go-formview/pkg/render"
	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/submit"
)

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	messageSink  submit.Sink
	sink         diag.Sink
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:       driver,
		outputFormat: OutputFormatJSON,
		sink:         diag.Nop{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

var _ render.Renderer = (*Renderer)(nil)

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "tui" }

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatMessage {
		return "text/plain"
	}
	return "application/json"
}

// Render prompts through the session's layout and returns the normalized
// submission payload.
func (r *Renderer) Render(ctx context.Context, session *form.Form, opts render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("tui: session is required")
	}

	nodes := session.Nodes()
	if len(nodes) == 0 {
		return nil, ErrNoContent
	}

	for key, value := range opts.Extras {
		session.SetExtra(key, value)
	}
	for id, value := range opts.Values {
		if err := session.SetValue(id, value); err != nil {
			r.sink.Warn("prefill ignored", "field", id, "error", err.Error())
		}
	}

	if title := session.Schema().Title; title != "" {
		_ = r.driver.Info(ctx, title)
	}
	if desc := session.Schema().Description; desc != "" {
		_ = r.driver.Info(ctx, desc)
	}
	if opts.Advisory != "" {
		_ = r.driver.Info(ctx, "Note: "+opts.Advisory)
	}

	for i := range nodes {
		if err := r.walkNode(ctx, session, &nodes[i]); err != nil {
			return nil, err
		}
	}

	if err := r.validationLoop(ctx, session); err != nil {
		return nil, err
	}

	proceed, err := r.confirmSubmit(ctx, session)
	if err != nil {
		return nil, err
	}
	if !proceed {
		return nil, ErrAborted
	}

	session.SetSubmitted(true)
	// Conditions may reference context.submitted, so the visibility and
	// validation pass runs once more before the payload is cut.
	if err := r.validationLoop(ctx, session); err != nil {
		return nil, err
	}

	payload := submit.Normalize(session.Fields(), session.Values(), session.Resolutions())
	message, err := submit.Message(session.Document().SubmitMessage, payload, r.sink)
	if err != nil {
		return nil, fmt.Errorf("tui: build submission message: %w", err)
	}

	if r.messageSink != nil && session.Document().ShouldSubmit() {
		if err := r.messageSink.Deliver(ctx, message); err != nil {
			// Delivery is fire-and-forget for the form itself; surface the
			// failure without discarding the collected payload.
			_ = r.driver.Info(ctx, "Delivery failed: "+err.Error())
			r.sink.Warn("submission delivery failed", "error", err.Error())
		}
	}

	if r.outputFormat == OutputFormatMessage {
		return []byte(message), nil
	}
	return json.Marshal(payload)
}

func (r *Renderer) walkNode(ctx context.Context, session *form.Form, node *schema.Node) error {
	switch node.Kind {
	case schema.NodeField:
		if node.Field == nil {
			return nil
		}
		return r.promptField(ctx, session, *node.Field)
	case schema.NodeSection:
		if node.Title != "" {
			_ = r.driver.Info(ctx, "\n"+node.Title)
		}
		if node.Description != "" {
			_ = r.driver.Info(ctx, node.Description)
		}
	case schema.NodeColumns:
		for c := range node.Columns {
			for i := range node.Columns[c].Children {
				if err := r.walkNode(ctx, session, &node.Columns[c].Children[i]); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for i := range node.Children {
		if err := r.walkNode(ctx, session, &node.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, session *form.Form, field schema.Field) error {
	res := session.ResolveField(field)
	if !res.ShouldRender {
		return nil
	}
	if res.Disabled {
		_ = r.driver.Info(ctx, fmt.Sprintf("%s (disabled)", promptLabel(field)))
		return nil
	}

	for {
		value, err := r.promptValue(ctx, session, field)
		if err != nil {
			return err
		}
		if err := session.SetValue(field.ID, value); err != nil {
			return fmt.Errorf("tui: store %s: %w", field.ID, err)
		}
		issue := form.ValidateField(field, value)
		if issue == nil {
			return nil
		}
		_ = r.driver.Info(ctx, issueLine(*issue))
	}
}

func (r *Renderer) promptValue(ctx context.Context, session *form.Form, field schema.Field) (any, error) {
	current, _ := session.Value(field.ID)

	switch field.Type {
	case schema.FieldCheckbox:
		def, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{
			Message: promptLabel(field),
			Default: def,
			Help:    field.Placeholder,
		})

	case schema.FieldSelect:
		options := stringifyOptions(field.Options)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      promptLabel(field),
			Options:      options,
			DefaultIndex: indexOf(options, strings.TrimSpace(fmt.Sprint(current))),
			Help:         field.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx], nil

	case schema.FieldTextarea:
		def, _ := current.(string)
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptLabel(field),
			Default: def,
			Help:    field.Placeholder,
		})

	case schema.FieldNumber:
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(field),
			Default: numberDefault(current),
			Help:    field.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return "", nil
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return parsed, nil
		}
		// Unparseable input is kept raw so validation can explain it.
		return raw, nil

	default:
		def, _ := current.(string)
		return r.driver.Input(ctx, InputConfig{
			Message: promptLabel(field),
			Default: def,
			Help:    field.Placeholder,
		})
	}
}

// validationLoop re-runs the full pass and re-prompts offending fields until
// the visible form validates.
func (r *Renderer) validationLoop(ctx context.Context, session *form.Form) error {
	for {
		issues := session.Validate()
		if len(issues) == 0 {
			return nil
		}
		byID := fieldsByID(session.Fields())
		for _, issue := range issues {
			_ = r.driver.Info(ctx, issueLine(issue))
			field, ok := byID[issue.FieldID]
			if !ok {
				continue
			}
			if err := r.promptField(ctx, session, field); err != nil {
				return err
			}
		}
	}
}

func (r *Renderer) confirmSubmit(ctx context.Context, session *form.Form) (bool, error) {
	label := "Submit?"
	hasSubmit := false
	for _, action := range session.Actions() {
		if action.Type != schema.ActionSubmit {
			continue
		}
		res := session.ResolveAction(action)
		if res.ShouldRender && !res.Disabled {
			hasSubmit = true
			if action.Label != "" {
				label = action.Label + "?"
			}
			break
		}
	}
	if len(session.Actions()) > 0 && !hasSubmit {
		// No reachable submit action; deliver nothing.
		return false, nil
	}
	return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: true})
}

func promptLabel(field schema.Field) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.ID
	}
	if field.Required {
		label += " *"
	}
	return label
}

func issueLine(issue form.Issue) string {
	line := issue.Message
	if len(issue.Suggestions) > 0 {
		parts := make([]string, 0, len(issue.Suggestions))
		for _, s := range issue.Suggestions {
			parts = append(parts, fmt.Sprint(s))
		}
		line += " (try: " + strings.Join(parts, ", ") + ")"
	}
	return line
}

func stringifyOptions(options []any) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		out = append(out, fmt.Sprint(option))
	}
	return out
}

func numberDefault(current any) string {
	switch v := current.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return ""
	}
}

func fieldsByID(fields []schema.Field) map[string]schema.Field {
	out := make(map[string]schema.Field, len(fields))
	for _, field := range fields {
		out[field.ID] = field
	}
	return out
}
