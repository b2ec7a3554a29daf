package render

import (
	"context"
)

// Renderer turns a session View into a byte representation (HTML, text,
// JSON). Presentation adapters pick one to draw the active step or the
// submitted summary.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}
