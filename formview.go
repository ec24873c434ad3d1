// Package formview interprets declarative JSON/YAML form schemas into live
// form sessions. The entry point is Interpret, which runs the gated pipeline:
// parse, version gate, structural validation, decode, layout resolution.
// Rendering is delegated to registered renderers (see pkg/render and
// pkg/renderers).
package formview

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-formview/pkg/diag"
	"github.com/goliatone/go-formview/pkg/form"
	"github.com/goliatone/go-formview/pkg/render"
	"github.com/goliatone/go-formview/pkg/renderers/outline"
	"github.com/goliatone/go-formview/pkg/renderers/tui"
	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/validate"
	"github.com/goliatone/go-formview/pkg/version"
)

// LegacyAdvisory is shown alongside forms whose schema predates versioning.
const LegacyAdvisory = "This form uses a legacy schema version; please upgrade it to a supported version."

// VersionError is the terminal outcome of the version gate: the declared
// version is either unparseable or a major this build does not render.
type VersionError struct {
	Raw    string
	Status version.Status
}

func (e *VersionError) Error() string {
	if e.Status == version.StatusInvalid {
		return fmt.Sprintf("formview: invalid schema version %q", e.Raw)
	}
	return fmt.Sprintf("formview: unsupported schema version %q", e.Raw)
}

// ValidationError is the terminal outcome of structural validation.
type ValidationError struct {
	Result validate.Result
}

func (e *ValidationError) Error() string {
	return "formview: schema validation failed:\n" + e.Result.Summary()
}

// ErrEmptyLayout marks a structurally valid schema that resolves to no
// renderable content.
var ErrEmptyLayout = errors.New("formview: schema has no renderable content")

// Report carries non-fatal pipeline outcomes alongside the session.
type Report struct {
	Version  version.Version
	Status   version.Status
	Advisory string
}

// Interpreter runs payloads through the interpretation pipeline.
type Interpreter struct {
	sink        diag.Sink
	formOptions []form.Option
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithDiagnostics routes pipeline and evaluator diagnostics to the sink.
func WithDiagnostics(sink diag.Sink) Option {
	return func(i *Interpreter) {
		if sink != nil {
			i.sink = sink
		}
	}
}

// WithFormOptions forwards options to the session built for each payload.
func WithFormOptions(options ...form.Option) Option {
	return func(i *Interpreter) {
		i.formOptions = append(i.formOptions, options...)
	}
}

// New constructs an Interpreter.
func New(options ...Option) *Interpreter {
	i := &Interpreter{sink: diag.Nop{}}
	for _, opt := range options {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Interpret runs the full pipeline over a raw payload. On success it returns
// a live session plus a report; a legacy version yields an advisory in the
// report, never an error. Terminal outcomes are *VersionError,
// *ValidationError, ErrEmptyLayout, or a parse error.
func (i *Interpreter) Interpret(payload []byte) (*form.Form, Report, error) {
	envelope, err := schema.ParsePayload(payload)
	if err != nil {
		return nil, Report{}, fmt.Errorf("formview: parse payload: %w", err)
	}

	raw := declaredVersion(envelope)
	status := version.Gate(raw)
	if status.Blocks() {
		return nil, Report{}, &VersionError{Raw: raw, Status: status}
	}
	parsed, _ := version.Parse(raw)

	report := Report{Version: parsed, Status: status}
	if status == version.StatusLegacy {
		report.Advisory = LegacyAdvisory
		i.sink.Warn("legacy schema version", "version", raw)
	}

	if result := validate.Document(envelope); !result.Valid() {
		return nil, report, &ValidationError{Result: result}
	}

	doc, err := schema.Decode(envelope)
	if err != nil {
		return nil, report, fmt.Errorf("formview: decode document: %w", err)
	}

	session, err := i.build(doc)
	if err != nil {
		return nil, report, err
	}
	return session, report, nil
}

// Session gates a decoded document's version and builds a live session from
// it. Used when the document arrives pre-validated, e.g. from pkg/loader.
func (i *Interpreter) Session(doc schema.Document) (*form.Form, Report, error) {
	status := version.Gate(doc.Version)
	if status.Blocks() {
		return nil, Report{}, &VersionError{Raw: doc.Version, Status: status}
	}
	parsed, _ := version.Parse(doc.Version)

	report := Report{Version: parsed, Status: status}
	if status == version.StatusLegacy {
		report.Advisory = LegacyAdvisory
		i.sink.Warn("legacy schema version", "version", doc.Version)
	}

	session, err := i.build(doc)
	if err != nil {
		return nil, report, err
	}
	return session, report, nil
}

func (i *Interpreter) build(doc schema.Document) (*form.Form, error) {
	options := append([]form.Option{form.WithDiagnostics(i.sink)}, i.formOptions...)
	session := form.New(doc, options...)
	if len(session.Nodes()) == 0 {
		return nil, ErrEmptyLayout
	}
	return session, nil
}

// Interpret is a convenience wrapper around a default Interpreter.
func Interpret(payload []byte, options ...Option) (*form.Form, Report, error) {
	return New(options...).Interpret(payload)
}

// declaredVersion extracts the envelope's version declaration as a string.
// Numeric declarations are stringified so the gate sees "1", not "1e+00".
func declaredVersion(envelope map[string]any) string {
	value, ok := envelope["version"]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

// DefaultRegistry wires the built-in renderers.
func DefaultRegistry(options ...tui.Option) (*render.Registry, error) {
	registry := render.NewRegistry()
	registry.MustRegister(outline.New())

	terminal, err := tui.New(options...)
	if err != nil {
		return nil, fmt.Errorf("formview: build tui renderer: %w", err)
	}
	registry.MustRegister(terminal)
	return registry, nil
}
