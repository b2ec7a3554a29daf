package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-stepform/pkg/render"
	rendertemplate "github.com/goliatone/go-stepform/pkg/render/template"
	"github.com/goliatone/go-stepform/pkg/render/template/pongo"
)

const (
	stepTemplate    = "templates/step.tmpl"
	summaryTemplate = "templates/summary.tmpl"

	// DefaultSummaryTitle heads the page shown after submission.
	DefaultSummaryTitle = "Thank you"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	summaryTitle     string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/step.tmpl and templates/summary.tmpl. Includes
// resolve relative to the including template, so the bundled partials are
// referenced as "partials/field.tmpl".
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSummaryTitle overrides the heading of the summary page. Inline
// formatting such as <em> is kept in the heading; other markup is removed.
func WithSummaryTitle(title string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cfg.summaryTitle = trimmed
		}
	}
}

// Renderer draws the active step as an HTML form, or the summary once the
// session is submitted.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	summaryTitle string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		summaryTitle: DefaultSummaryTitle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, summaryTitle: cfg.summaryTitle}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	data := map[string]any{
		"classes":    classMap(),
		"theme":      buildThemeContext(options.Theme),
		"stylesheet": stylesheetURL(options.Theme),
		"inline_css": defaultStylesheet(),
	}

	name := stepTemplate
	if view.Submitted {
		name = summaryTemplate
		data["title"] = headingText(r.summaryTitle)
		data["title_html"] = headingMarkup(r.summaryTitle)
		data["summary"] = summaryEntries(view.Summary)
	} else {
		data["view"] = view
		data["progress"] = percent(view.Progress)
		data["action"] = strings.TrimRight(options.Action, "/")
		data["hidden"] = render.SortedHiddenFields(render.MergeHiddenFields(nil, options.Hidden...))
	}

	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
