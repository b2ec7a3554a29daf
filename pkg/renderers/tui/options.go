package tui

import (
	"io"

	"go.uber.org/zap"
)

// OutputFormat controls how the submitted summary is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value onto an OutputFormat.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(raw), true
	case "":
		return OutputFormatJSON, true
	}
	return "", false
}

// Theme captures optional formatting hints applied when printing messages.
type Theme struct {
	StepPrefix  string
	ErrorPrefix string
}

// DefaultTheme is applied when WithTheme is not used.
var DefaultTheme = Theme{StepPrefix: "==", ErrorPrefix: "!"}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithInfoWriter redirects informational messages of the default survey
// driver. It has no effect when a custom driver is supplied.
func WithInfoWriter(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.infoWriter = w
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLogger sets the logger used to trace the prompt loop.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
