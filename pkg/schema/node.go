package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NodeKind tags a layout node variant.
type NodeKind string

const (
	NodeSection NodeKind = "section"
	NodeStack   NodeKind = "stack"
	NodeRow     NodeKind = "row"
	NodeColumns NodeKind = "columns"
	NodeGroup   NodeKind = "group"
	// NodeField marks a field leaf inside a container's children.
	NodeField NodeKind = "field"
)

// ContainerKinds lists the layout container variants.
func ContainerKinds() []string {
	return []string{
		string(NodeSection), string(NodeStack), string(NodeRow),
		string(NodeColumns), string(NodeGroup),
	}
}

// Column is one slot of a columns container.
type Column struct {
	ID       string `json:"id,omitempty"`
	Children []Node `json:"children"`
}

// Node is a tagged union over the layout container variants plus field
// leaves. Containers carry Children (Columns for the columns variant); field
// leaves carry Field.
type Node struct {
	Kind NodeKind

	// Field is set when Kind == NodeField.
	Field *Field

	// Section chrome.
	Title       string
	Description string

	// Gap applies to every container kind. Empty means GapMD.
	Gap Gap

	// ColumnCount is the row variant's column count (1-6). Zero means
	// min(len(Children), 2).
	ColumnCount int

	Children []Node
	Columns  []Column
}

// EffectiveGap resolves the default gap size.
func (n Node) EffectiveGap() Gap {
	if n.Gap == "" {
		return GapMD
	}
	return n.Gap
}

// EffectiveColumnCount resolves the row variant's default column count.
func (n Node) EffectiveColumnCount() int {
	if n.Kind != NodeRow {
		return 0
	}
	if n.ColumnCount > 0 {
		return n.ColumnCount
	}
	if len(n.Children) < 2 {
		return len(n.Children)
	}
	return 2
}

// IsContainer reports whether the node is a layout container.
func (n Node) IsContainer() bool {
	switch n.Kind {
	case NodeSection, NodeStack, NodeRow, NodeColumns, NodeGroup:
		return true
	default:
		return false
	}
}

type nodeJSON struct {
	Type        string   `json:"type"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Gap         Gap      `json:"gap,omitempty"`
	ColumnCount int      `json:"columnCount,omitempty"`
	Children    []Node   `json:"children,omitempty"`
	Columns     []Column `json:"columns,omitempty"`
}

// UnmarshalJSON decodes a layout container or, when the type tag is one of
// the field types, a field leaf.
func (n *Node) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("schema: layout node: %w", err)
	}

	kind := NodeKind(strings.TrimSpace(probe.Type))
	switch kind {
	case NodeSection, NodeStack, NodeRow, NodeColumns, NodeGroup:
		var raw nodeJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("schema: %s node: %w", kind, err)
		}
		*n = Node{
			Kind:        kind,
			Title:       raw.Title,
			Description: raw.Description,
			Gap:         raw.Gap,
			ColumnCount: raw.ColumnCount,
			Children:    raw.Children,
			Columns:     raw.Columns,
		}
		return nil
	default:
		var field Field
		if err := json.Unmarshal(data, &field); err != nil {
			return fmt.Errorf("schema: field node: %w", err)
		}
		*n = Node{Kind: NodeField, Field: &field}
		return nil
	}
}

// MarshalJSON re-emits the node in its wire shape.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.Kind == NodeField {
		return json.Marshal(n.Field)
	}
	out := map[string]any{"type": string(n.Kind)}
	if n.Title != "" {
		out["title"] = n.Title
	}
	if n.Description != "" {
		out["description"] = n.Description
	}
	if n.Gap != "" {
		out["gap"] = n.Gap
	}
	if n.ColumnCount > 0 {
		out["columnCount"] = n.ColumnCount
	}
	if n.Kind == NodeColumns {
		out["columns"] = n.Columns
	} else {
		out["children"] = n.Children
	}
	return json.Marshal(out)
}
