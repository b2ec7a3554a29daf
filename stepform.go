package stepform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/renderers/tui"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla"
	"github.com/goliatone/go-stepform/pkg/session"
)

// Session aliases session.Session so simple callers only import the root
// package.
type Session = session.Session

// Option configures a Session.
type Option = session.Option

// Catalog aliases catalog.Catalog.
type Catalog = catalog.Catalog

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// NewSession starts a session over the built-in two-step contact form.
func NewSession(options ...Option) (*Session, error) {
	return session.New(catalog.Default(), options...)
}

// NewSessionFromFile starts a session over a YAML or JSON catalog file.
func NewSessionFromFile(path string, options ...Option) (*Session, error) {
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return session.New(cat, options...)
}

// DefaultRegistry holds the HTML renderer (the default) and the terminal
// renderer.
func DefaultRegistry() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	text, err := tui.New()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(html, text)
}

// Render draws s with the named renderer from DefaultRegistry; an empty name
// selects HTML.
func Render(ctx context.Context, s *Session, rendererName string, options RenderOptions) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("stepform: session is required")
	}
	registry, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, render.NewView(s), options)
}
