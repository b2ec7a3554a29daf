package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data that is not part of the session view.
type RenderOptions struct {
	// Action is the form target. Renderers post next/back to Action + "/next"
	// and Action + "/back".
	Action string
	// Hidden fields are emitted alongside the visible inputs (session ids,
	// CSRF tokens).
	Hidden []HiddenField
	// Theme supplies optional tokens and asset URLs.
	Theme *theme.RendererConfig
}
