// Package form holds live form state and applies field-level validation. The
// Form session re-runs the full visibility and validation pass on every
// state-changing interaction, since any field's condition may reference any
// other field's current value.
package form

import (
	"fmt"

	"github.com/goliatone/go-formview/pkg/schema"
)

// State maps field ids to their current values (string, number, or bool).
// It is seeded from field defaults and mutated only through Set.
type State struct {
	values map[string]any
	fields []schema.Field
}

// NewState seeds state from the ordered field list: the field's declared
// default, or false for checkboxes and the empty string for everything else.
func NewState(fields []schema.Field) *State {
	s := &State{fields: fields}
	s.Reset()
	return s
}

// Reset restores every field to its computed default.
func (s *State) Reset() {
	s.values = make(map[string]any, len(s.fields))
	for _, field := range s.fields {
		s.values[field.ID] = defaultValue(field)
	}
}

// Set updates a field's value. Unknown ids are rejected so typos surface
// instead of silently growing the state map.
func (s *State) Set(id string, value any) error {
	if _, ok := s.values[id]; !ok {
		return fmt.Errorf("form: unknown field %q", id)
	}
	s.values[id] = value
	return nil
}

// Get returns the current value for a field id.
func (s *State) Get(id string) (any, bool) {
	value, ok := s.values[id]
	return value, ok
}

// Values returns a copy of the current state map.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func defaultValue(field schema.Field) any {
	if field.Default != nil {
		return field.Default
	}
	if field.Type == schema.FieldCheckbox {
		return false
	}
	return ""
}
