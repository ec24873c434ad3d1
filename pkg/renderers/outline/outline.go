// Package outline renders a form session as a plain-text tree: layout
// structure, field metadata, and the visibility decision for every element.
// It is the non-interactive companion to the TUI renderer, useful for
// debugging schemas and for golden-file tests.
package outline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formview/pkg/form"
	"github.com/goliatone/go-formview/pkg/render"
	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/visibility"
)

// Renderer implements render.Renderer with a textual outline output.
type Renderer struct {
	indent string
}

// Option configures the outline renderer.
type Option func(*Renderer)

// WithIndent overrides the per-level indentation string.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		if indent != "" {
			r.indent = indent
		}
	}
}

// New constructs an outline renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

var _ render.Renderer = (*Renderer)(nil)

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "outline" }

// ContentType reports the output MIME type.
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the session outline. Prefilled values and ambient extras
// from options are applied first so visibility decisions reflect them.
func (r *Renderer) Render(ctx context.Context, session *form.Form, opts render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("outline: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("outline: session is required")
	}

	for key, value := range opts.Extras {
		session.SetExtra(key, value)
	}
	for id, value := range opts.Values {
		// Unknown ids are a caller mistake, not a schema defect.
		_ = session.SetValue(id, value)
	}

	var b strings.Builder
	if title := session.Schema().Title; title != "" {
		fmt.Fprintf(&b, "form: %s\n", title)
	} else {
		b.WriteString("form\n")
	}
	if desc := session.Schema().Description; desc != "" {
		fmt.Fprintf(&b, "description: %s\n", desc)
	}
	if opts.Advisory != "" {
		fmt.Fprintf(&b, "advisory: %s\n", opts.Advisory)
	}

	nodes := session.Nodes()
	if len(nodes) == 0 {
		b.WriteString("(empty layout)\n")
		return []byte(b.String()), nil
	}
	for i := range nodes {
		r.writeNode(&b, session, &nodes[i], 0)
	}

	if actions := session.Actions(); len(actions) > 0 {
		b.WriteString("actions:\n")
		for _, action := range actions {
			res := session.ResolveAction(action)
			fmt.Fprintf(&b, "%s%s %q%s\n", r.indent, action.Type, action.Label, stateSuffix(res))
		}
	}

	return []byte(b.String()), nil
}

func (r *Renderer) writeNode(b *strings.Builder, session *form.Form, node *schema.Node, depth int) {
	pad := strings.Repeat(r.indent, depth)

	switch node.Kind {
	case schema.NodeField:
		if node.Field == nil {
			return
		}
		field := *node.Field
		res := session.ResolveField(field)
		fmt.Fprintf(b, "%sfield %s (%s)%s%s\n", pad, field.ID, field.Type, requiredSuffix(field), stateSuffix(res))
		return
	case schema.NodeColumns:
		fmt.Fprintf(b, "%scolumns [%d]\n", pad, len(node.Columns))
		for c := range node.Columns {
			fmt.Fprintf(b, "%scolumn %d\n", strings.Repeat(r.indent, depth+1), c+1)
			for i := range node.Columns[c].Children {
				r.writeNode(b, session, &node.Columns[c].Children[i], depth+2)
			}
		}
		return
	case schema.NodeSection:
		if node.Title != "" {
			fmt.Fprintf(b, "%ssection %q\n", pad, node.Title)
		} else {
			fmt.Fprintf(b, "%ssection\n", pad)
		}
	case schema.NodeRow:
		fmt.Fprintf(b, "%srow [%d]\n", pad, node.EffectiveColumnCount())
	default:
		fmt.Fprintf(b, "%s%s (gap: %s)\n", pad, node.Kind, node.EffectiveGap())
	}

	for i := range node.Children {
		r.writeNode(b, session, &node.Children[i], depth+1)
	}
}

func requiredSuffix(field schema.Field) string {
	if field.Required {
		return " required"
	}
	return ""
}

func stateSuffix(res visibility.Resolution) string {
	switch {
	case !res.ShouldRender:
		return " [hidden]"
	case res.Disabled:
		return " [disabled]"
	default:
		return ""
	}
}
