package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formview/pkg/diag"
)

// DefaultTemplate is used when the document configures no submitMessage.
const DefaultTemplate = "Form submission:\n{{ json }}"

// Sink delivers the rendered submission message to an external collaborator.
// Delivery is fire-and-forget from the interpreter's perspective; callers
// surface the outcome as UI state distinct from form validity.
type Sink interface {
	Deliver(ctx context.Context, text string) error
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, text string) error

// Deliver delegates to the underlying function.
func (fn SinkFunc) Deliver(ctx context.Context, text string) error {
	return fn(ctx, text)
}

// WriterSink writes delivered messages to an io.Writer.
type WriterSink struct {
	W io.Writer
}

// Deliver implements Sink.
func (s WriterSink) Deliver(_ context.Context, text string) error {
	_, err := fmt.Fprintln(s.W, text)
	return err
}

// Message substitutes the pretty-printed payload wherever the template's
// {{json}} placeholder appears. An empty template falls back to
// DefaultTemplate, as does a template that fails to parse (with a
// diagnostic).
func Message(template string, payload map[string]any, sink diag.Sink) (string, error) {
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("submit: encode payload: %w", err)
	}

	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}

	rendered, err := renderTemplate(template, string(pretty))
	if err != nil {
		if sink != nil {
			sink.Warn("submit message template failed", "error", err.Error())
		}
		return renderTemplate(DefaultTemplate, string(pretty))
	}
	return rendered, nil
}

func renderTemplate(template, pretty string) (string, error) {
	tpl, err := pongo2.FromString(template)
	if err != nil {
		return "", fmt.Errorf("submit: parse template: %w", err)
	}
	// AsSafeValue keeps the payload verbatim; autoescaping would mangle the
	// JSON quotes.
	out, err := tpl.Execute(pongo2.Context{"json": pongo2.AsSafeValue(pretty)})
	if err != nil {
		return "", fmt.Errorf("submit: execute template: %w", err)
	}
	return out, nil
}
