// Package render defines the renderer contract and a name-keyed registry.
// The interpreter core stays renderer-agnostic; the visual widget toolkit is
// an external collaborator behind this seam.
package render

import (
	"context"

	"github.com/goliatone/go-formview/pkg/form"
)

// Renderer drives a form session into a byte representation (an interactive
// terminal run, a text outline, or anything a host embeds).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, session *form.Form, options Options) ([]byte, error)
}

// Options carries per-request instructions renderers may honor.
type Options struct {
	// Values pre-populates form state by field id before rendering.
	Values map[string]any
	// Extras seeds ambient condition context (context.<key> refs).
	Extras map[string]any
	// Advisory is a non-fatal notice (for example a legacy-version upgrade
	// hint) the renderer should surface without blocking the form.
	Advisory string
}
