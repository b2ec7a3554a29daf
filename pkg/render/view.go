package render

import (
	"slices"

	"github.com/goliatone/go-stepform/pkg/rules"
	"github.com/goliatone/go-stepform/pkg/session"
)

// FieldView is everything an adapter needs to draw one input.
type FieldView struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	// Message is Errors joined with MessageSeparator.
	Message string `json:"message,omitempty"`
}

// HasErrors reports whether the field should be drawn in its error state.
func (f FieldView) HasErrors() bool {
	return len(f.Errors) > 0
}

// View is a rendering snapshot of a session: the active step with its values
// and errors, navigation state, and the summary once submitted.
type View struct {
	Step      int             `json:"step"`
	Total     int             `json:"total"`
	StepName  string          `json:"stepName,omitempty"`
	Title     string          `json:"title,omitempty"`
	Fields    []FieldView     `json:"fields,omitempty"`
	Buttons   session.Buttons `json:"buttons"`
	Progress  float64         `json:"progress"`
	Submitted bool            `json:"submitted"`
	Summary   []session.Entry `json:"summary,omitempty"`
}

// NewView captures the current state of s.
func NewView(s *session.Session) View {
	state := s.State()
	step := s.ActiveStep()

	view := View{
		Step:      state.Step,
		Total:     state.Total,
		StepName:  step.Name,
		Title:     step.Title,
		Buttons:   s.Buttons(),
		Progress:  s.Progress(),
		Submitted: state.Submitted,
	}

	if summary, ok := s.Summary(); ok {
		view.Summary = summary.Entries()
		return view
	}

	src := s.Source()
	view.Fields = make([]FieldView, 0, len(step.Fields))
	for _, field := range step.Fields {
		value := ""
		if src != nil {
			value, _ = src.Value(field.Name)
		}
		errs := NormalizeMessages(s.Errors(field.Name))
		view.Fields = append(view.Fields, FieldView{
			Name:     field.Name,
			Label:    field.DisplayLabel(),
			Value:    value,
			Options:  append([]string(nil), field.Options...),
			Required: slices.Contains(field.Rules, rules.Required),
			Errors:   errs,
			Message:  JoinMessages(errs),
		})
	}
	return view
}

// Field returns the view for name.
func (v View) Field(name string) (FieldView, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldView{}, false
}
