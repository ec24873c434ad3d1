// Package layout normalizes a schema's layout description into the node tree
// renderers walk, and derives the ordered flat field list that drives
// defaulting, validation, and submission.
package layout

import (
	"github.com/goliatone/go-formview/pkg/schema"
)

// maxDepth defensively bounds traversal of untrusted layout trees.
const maxDepth = 32

// Resolve returns the node list to render. An explicit layout wins; a
// fields-only schema is wrapped in a single implicit vertical stack with
// medium gap. An empty result means the caller must render a "no renderable
// content" state.
func Resolve(s schema.Schema) []schema.Node {
	if len(s.Layout) > 0 {
		return s.Layout
	}
	if len(s.Fields) == 0 {
		return nil
	}

	children := make([]schema.Node, 0, len(s.Fields))
	for i := range s.Fields {
		field := s.Fields[i]
		children = append(children, schema.Node{Kind: schema.NodeField, Field: &field})
	}
	return []schema.Node{{
		Kind:     schema.NodeStack,
		Gap:      schema.GapMD,
		Children: children,
	}}
}

// CollectFields extracts every field leaf from the node list in depth-first,
// left-to-right order. For columns containers, column slots are visited in
// order, then each slot's children in order. The resulting order is
// authoritative for defaulting and validation.
func CollectFields(nodes []schema.Node) []schema.Field {
	var out []schema.Field
	for i := range nodes {
		collect(&nodes[i], &out, 0)
	}
	return out
}

func collect(node *schema.Node, out *[]schema.Field, depth int) {
	if depth > maxDepth {
		return
	}
	if node.Kind == schema.NodeField {
		if node.Field != nil {
			*out = append(*out, *node.Field)
		}
		return
	}
	if node.Kind == schema.NodeColumns {
		for c := range node.Columns {
			for i := range node.Columns[c].Children {
				collect(&node.Columns[c].Children[i], out, depth+1)
			}
		}
		return
	}
	for i := range node.Children {
		collect(&node.Children[i], out, depth+1)
	}
}
