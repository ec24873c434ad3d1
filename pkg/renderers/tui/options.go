package tui

import (
	"github.com/goliatone/go-formview/pkg/diag"
	"github.com/goliatone/go-formview/pkg/submit"
)

// OutputFormat controls how the final submission payload is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the normalized payload as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatMessage emits the rendered submission message.
	OutputFormatMessage OutputFormat = "message"
)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithMessageSink forwards the rendered submission message after a
// successful submit. Without a sink the renderer only returns the payload.
func WithMessageSink(sink submit.Sink) Option {
	return func(r *Renderer) {
		r.messageSink = sink
	}
}

// WithDiagnostics routes renderer diagnostics to the provided sink.
func WithDiagnostics(sink diag.Sink) Option {
	return func(r *Renderer) {
		if sink != nil {
			r.sink = sink
		}
	}
}
