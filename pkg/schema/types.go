// Package schema defines the UI schema document model: the envelope payload,
// field and layout nodes, actions, and the visibility condition language.
package schema

// FieldType enumerates the supported input kinds.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldTextarea FieldType = "textarea"
)

// FieldTypes lists every valid field type, used for validation hints.
func FieldTypes() []string {
	return []string{
		string(FieldText), string(FieldEmail), string(FieldNumber),
		string(FieldSelect), string(FieldCheckbox), string(FieldTextarea),
	}
}

// ActionType enumerates the supported action kinds.
type ActionType string

const (
	ActionButton ActionType = "button"
	ActionSubmit ActionType = "submit"
	ActionReset  ActionType = "reset"
)

// ActionTypes lists every valid action type.
func ActionTypes() []string {
	return []string{string(ActionButton), string(ActionSubmit), string(ActionReset)}
}

// ActionStyle enumerates presentation hints for actions.
type ActionStyle string

const (
	StylePrimary   ActionStyle = "primary"
	StyleSecondary ActionStyle = "secondary"
	StyleOutline   ActionStyle = "outline"
)

// ActionStyles lists every valid action style.
func ActionStyles() []string {
	return []string{string(StylePrimary), string(StyleSecondary), string(StyleOutline)}
}

// Fallback is the policy applied when a visibility condition is false.
type Fallback string

const (
	// FallbackHidden omits the element entirely. Default when unset.
	FallbackHidden Fallback = "hidden"
	// FallbackDisabled renders the element inert.
	FallbackDisabled Fallback = "disabled"
)

// Fallbacks lists every valid fallback policy.
func Fallbacks() []string {
	return []string{string(FallbackHidden), string(FallbackDisabled)}
}

// Gap is the spacing applied between a container's children.
type Gap string

const (
	GapSM Gap = "sm"
	GapMD Gap = "md"
	GapLG Gap = "lg"
)

// Gaps lists every valid gap size.
func Gaps() []string {
	return []string{string(GapSM), string(GapMD), string(GapLG)}
}

// Field describes a single form input. ID is the unique, stable key used by
// form state, conditions, and submissions.
type Field struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Type        FieldType  `json:"type"`
	Placeholder string     `json:"placeholder,omitempty"`
	Required    bool       `json:"required,omitempty"`
	Options     []any      `json:"options,omitempty"`
	Min         *float64   `json:"min,omitempty"`
	Max         *float64   `json:"max,omitempty"`
	MinLength   *int       `json:"minLength,omitempty"`
	MaxLength   *int       `json:"maxLength,omitempty"`
	Pattern     string     `json:"pattern,omitempty"`
	Default     any        `json:"default,omitempty"`
	Rows        int        `json:"rows,omitempty"`
	Condition   *Condition `json:"condition,omitempty"`
	Fallback    Fallback   `json:"fallback,omitempty"`
}

// Action describes a form-level button.
type Action struct {
	ID        string      `json:"id"`
	Label     string      `json:"label"`
	Type      ActionType  `json:"type"`
	Style     ActionStyle `json:"style,omitempty"`
	Condition *Condition  `json:"condition,omitempty"`
	Fallback  Fallback    `json:"fallback,omitempty"`
}

// Schema is the declarative form description. Layout takes precedence over
// Fields when both are present; a fields-only schema is implicitly wrapped in
// a single vertical stack by the layout normalizer.
type Schema struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Fields      []Field  `json:"fields,omitempty"`
	Layout      []Node   `json:"layout,omitempty"`
	Actions     []Action `json:"actions,omitempty"`
}

// Document is the inbound payload envelope. A bare Schema (no uiSchema key)
// is accepted for backward compatibility; ParsePayload wraps it.
type Document struct {
	Version           string `json:"version,omitempty"`
	UISchema          Schema `json:"uiSchema"`
	SubmitToAssistant *bool  `json:"submitToAssistant,omitempty"`
	SubmitMessage     string `json:"submitMessage,omitempty"`
}

// ShouldSubmit reports whether the normalized submission is forwarded to the
// message sink. Defaults to true when the envelope omits the flag.
func (d Document) ShouldSubmit() bool {
	return d.SubmitToAssistant == nil || *d.SubmitToAssistant
}
