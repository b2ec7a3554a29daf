package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/session"
)

const (
	choiceBack = "Back"
	choiceEdit = "Edit answers"
)

// Renderer drives a session from the terminal and serializes the submitted
// summary. As a render.Renderer it prints a plain-text snapshot of a view.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	infoWriter   io.Writer
	theme        Theme
	logger       *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		logger:       zap.NewNop(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.infoWriter)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used for summaries.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render serializes the summary of a submitted view, or prints the active
// step with its values and inline errors otherwise.
func (r *Renderer) Render(ctx context.Context, view render.View, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if view.Submitted {
		return r.serialize(view.Summary)
	}

	var b strings.Builder
	b.WriteString(r.stepHeader(view))
	b.WriteString("\n")
	for _, field := range view.Fields {
		fmt.Fprintf(&b, "%s: %s\n", field.Label, field.Value)
		if field.Message != "" {
			fmt.Fprintf(&b, "  %s %s\n", r.theme.ErrorPrefix, field.Message)
		}
	}
	return []byte(b.String()), nil
}

// Run prompts for every field of the active step, re-asking a field until
// its value passes, then offers navigation. It returns the serialized summary
// once the session is submitted.
func (r *Renderer) Run(ctx context.Context, s *session.Session) ([]byte, error) {
	if s == nil {
		return nil, ErrNoSession
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var pending map[string]struct{}
	for !s.IsSubmitted() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := r.driver.Info(ctx, r.stepHeader(render.NewView(s))); err != nil {
			return nil, err
		}
		for _, field := range s.ActiveStep().Fields {
			if pending != nil {
				if _, ok := pending[field.Name]; !ok {
					continue
				}
			}
			if err := r.promptField(ctx, s, field); err != nil {
				return nil, err
			}
		}

		res, edit, err := r.navigate(ctx, s)
		if err != nil {
			return nil, err
		}
		pending = nil
		if edit {
			continue
		}

		r.logger.Debug("navigation", zap.Stringer("result", res), zap.Int("step", s.Step()))
		if res == session.Blocked {
			if pending, err = r.reportErrors(ctx, s); err != nil {
				return nil, err
			}
		}
	}

	summary, _ := s.Summary()
	return r.serialize(summary.Entries())
}

func (r *Renderer) promptField(ctx context.Context, s *session.Session, field catalog.Field) error {
	label := field.DisplayLabel()
	options := selectableOptions(field.Options)

	for {
		current := ""
		if src := s.Source(); src != nil {
			current, _ = src.Value(field.Name)
		}

		var value string
		if len(options) > 0 {
			idx, err := r.driver.Select(ctx, SelectConfig{
				Message:      label,
				Options:      options,
				DefaultIndex: indexOf(options, current),
			})
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(options) {
				if err := r.driver.Info(ctx, fmt.Sprintf("%s Invalid %s selection", r.theme.ErrorPrefix, label)); err != nil {
					return err
				}
				continue
			}
			value = options[idx]
		} else {
			input, err := r.driver.Input(ctx, InputConfig{
				Message: label,
				Default: current,
				Help:    ruleHelp(field),
			})
			if err != nil {
				return err
			}
			value = input
		}

		messages := s.FieldChanged(field.Name, value)
		if len(messages) == 0 {
			return nil
		}
		if err := r.driver.Info(ctx, r.invalidMessage(label, messages)); err != nil {
			return err
		}
	}
}

// navigate asks where to go next. edit is true when the user chose to
// re-answer the current step.
func (r *Renderer) navigate(ctx context.Context, s *session.Session) (session.Result, bool, error) {
	buttons := s.Buttons()
	choices := []string{buttons.NextLabel}
	if !buttons.BackDisabled {
		choices = append(choices, choiceBack)
	}
	choices = append(choices, choiceEdit)

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Continue",
		Options:      choices,
		DefaultIndex: 0,
	})
	if err != nil {
		return session.Blocked, false, err
	}
	if idx < 0 || idx >= len(choices) {
		return session.Blocked, true, nil
	}

	switch choices[idx] {
	case choiceEdit:
		return session.Blocked, true, nil
	case choiceBack:
		res, err := s.Retreat(ctx)
		return res, false, err
	default:
		res, err := s.Advance(ctx)
		return res, false, err
	}
}

// reportErrors prints the ledger after a blocked transition and returns the
// fields to ask again.
func (r *Renderer) reportErrors(ctx context.Context, s *session.Session) (map[string]struct{}, error) {
	invalid := make(map[string]struct{})
	for _, field := range s.ActiveStep().Fields {
		messages := s.Errors(field.Name)
		if len(messages) == 0 {
			continue
		}
		invalid[field.Name] = struct{}{}
		if err := r.driver.Info(ctx, r.invalidMessage(field.DisplayLabel(), messages)); err != nil {
			return nil, err
		}
	}
	if len(invalid) == 0 {
		return nil, nil
	}
	return invalid, nil
}

func (r *Renderer) invalidMessage(label string, messages []string) string {
	return strings.TrimSpace(fmt.Sprintf("%s Invalid %s: %s", r.theme.ErrorPrefix, label, render.JoinMessages(messages)))
}

func (r *Renderer) stepHeader(view render.View) string {
	title := view.Title
	if title == "" {
		title = catalog.Humanize(view.StepName)
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s (step %d of %d, %.0f%%)",
		r.theme.StepPrefix, title, view.Step+1, view.Total, view.Progress))
}

func (r *Renderer) serialize(entries []session.Entry) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, entry := range entries {
			values.Set(entry.Field, entry.Value)
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, entry := range entries {
			fmt.Fprintf(&b, "%s: %s\n", entry.Label, entry.Value)
		}
		return []byte(b.String()), nil
	default:
		values := make(map[string]string, len(entries))
		for _, entry := range entries {
			values[entry.Field] = entry.Value
		}
		return json.Marshal(values)
	}
}

// selectableOptions drops the blank placeholder option used by HTML selects.
func selectableOptions(options []string) []string {
	if len(options) == 0 {
		return nil
	}
	out := make([]string, 0, len(options))
	for _, option := range options {
		if strings.TrimSpace(option) == "" {
			continue
		}
		out = append(out, option)
	}
	return out
}

func ruleHelp(field catalog.Field) string {
	if len(field.Rules) == 0 {
		return ""
	}
	names := make([]string, 0, len(field.Rules))
	for _, rule := range field.Rules {
		names = append(names, rule.String())
	}
	return "Rules: " + strings.Join(names, ", ")
}
