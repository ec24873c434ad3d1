package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeDocument strips markup from author-controlled display strings.
// Schemas arrive from remote producers, and labels/descriptions end up inside
// rendered output, so they pass through a strict policy that keeps text only.
func sanitizeDocument(doc *Document) {
	if doc == nil {
		return
	}
	doc.UISchema.Title = sanitizeText(doc.UISchema.Title)
	doc.UISchema.Description = sanitizeText(doc.UISchema.Description)
	for i := range doc.UISchema.Fields {
		sanitizeField(&doc.UISchema.Fields[i])
	}
	for i := range doc.UISchema.Layout {
		sanitizeNode(&doc.UISchema.Layout[i])
	}
	for i := range doc.UISchema.Actions {
		doc.UISchema.Actions[i].Label = sanitizeText(doc.UISchema.Actions[i].Label)
	}
}

func sanitizeNode(node *Node) {
	node.Title = sanitizeText(node.Title)
	node.Description = sanitizeText(node.Description)
	if node.Kind == NodeField && node.Field != nil {
		sanitizeField(node.Field)
		return
	}
	for i := range node.Children {
		sanitizeNode(&node.Children[i])
	}
	for c := range node.Columns {
		for i := range node.Columns[c].Children {
			sanitizeNode(&node.Columns[c].Children[i])
		}
	}
}

func sanitizeField(field *Field) {
	field.Label = sanitizeText(field.Label)
	field.Placeholder = sanitizeText(field.Placeholder)
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(textSanitizer().Sanitize(trimmed))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
