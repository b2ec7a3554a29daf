package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/ledger"
	"github.com/goliatone/go-stepform/pkg/rules"
	"github.com/goliatone/go-stepform/pkg/validation"
)

// State machine vocabulary.
const (
	EventNext = "next"
	EventBack = "back"

	StateSubmitted = "submitted"
)

var (
	// ErrSubmitted is returned when navigating a session that already
	// reached the submitted state.
	ErrSubmitted = errors.New("session: form already submitted")
	// ErrBlocked is the cancel reason attached to transitions refused
	// because the active step has validation errors.
	ErrBlocked = errors.New("session: active step has validation errors")
)

// Result describes the outcome of a navigation attempt.
type Result int

const (
	// Blocked means the active step failed validation; nothing moved.
	Blocked Result = iota
	// Moved means the step index changed.
	Moved
	// Clamped means a retreat from the first step; the index stayed at 0.
	Clamped
	// Submitted means the last step passed and the summary is available.
	Submitted
)

func (r Result) String() string {
	switch r {
	case Blocked:
		return "blocked"
	case Moved:
		return "moved"
	case Clamped:
		return "clamped"
	case Submitted:
		return "submitted"
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// State is a point-in-time view of the session.
type State struct {
	Step      int    `json:"step"`
	Total     int    `json:"total"`
	Name      string `json:"name"`
	Submitted bool   `json:"submitted"`
}

// Buttons mirrors the navigation controls an adapter should show.
type Buttons struct {
	BackDisabled bool   `json:"backDisabled"`
	NextDisabled bool   `json:"nextDisabled"`
	NextLabel    string `json:"nextLabel"`
}

// Listener observes session changes. Adapters use it to re-render errors and
// steps as they happen.
type Listener interface {
	FieldErrors(field string, messages []string)
	StepChanged(state State)
}

// Session owns the step index, the error ledger and the active validator for
// one user working through a catalog. A Session is not safe for concurrent
// use; every method runs to completion synchronously.
type Session struct {
	catalog  catalog.Catalog
	postcode rules.PostcodeRange

	source    validation.FieldSource
	ledger    *ledger.Ledger
	validator *validation.Validator

	machine    *fsm.FSM
	stateIndex map[string]int
	step       int
	summary    *Summary

	listener Listener
	logger   *zap.Logger
}

// New builds a session positioned on the first step of cat.
func New(cat catalog.Catalog, opts ...Option) (*Session, error) {
	if err := catalog.Validate(cat); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		catalog:  cat.Clone(),
		postcode: cat.PostcodeRange(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.source == nil {
		names := make([]string, 0)
		for _, field := range s.catalog.AllFields() {
			names = append(names, field.Name)
		}
		s.source = validation.NewMapSource(names...)
	}

	s.ledger = ledger.New(nil)
	s.ledger.OnChange(func(field string, messages []string) {
		if s.listener != nil {
			s.listener.FieldErrors(field, messages)
		}
	})
	s.machine = s.buildMachine()
	s.activate(0)

	return s, nil
}

func stateName(index int) string {
	return fmt.Sprintf("step_%d", index)
}

func (s *Session) buildMachine() *fsm.FSM {
	total := s.catalog.Len()
	s.stateIndex = make(map[string]int, total)

	events := make(fsm.Events, 0, total*2)
	for i := 0; i < total; i++ {
		src := stateName(i)
		s.stateIndex[src] = i

		next := StateSubmitted
		if i < total-1 {
			next = stateName(i + 1)
		}
		events = append(events,
			fsm.EventDesc{Name: EventNext, Src: []string{src}, Dst: next},
			fsm.EventDesc{Name: EventBack, Src: []string{src}, Dst: stateName(max(i-1, 0))},
		)
	}

	return fsm.NewFSM(
		stateName(0),
		events,
		fsm.Callbacks{
			"before_event": func(_ context.Context, e *fsm.Event) {
				s.guard(e)
			},
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.enter(e.Dst)
			},
		},
	)
}

// guard re-validates the whole active step before any transition and
// cancels the event when the ledger holds errors.
func (s *Session) guard(e *fsm.Event) {
	s.validator.ValidateForm(s.source, s.ledger)
	if s.ledger.Any() {
		s.logger.Debug("navigation blocked",
			zap.String("event", e.Event),
			zap.Int("step", s.step),
			zap.Strings("invalid", s.invalidFields()),
		)
		e.Cancel(ErrBlocked)
	}
}

func (s *Session) enter(dst string) {
	if dst == StateSubmitted {
		summary := snapshot(s.catalog, s.source)
		s.summary = &summary
		s.logger.Info("form submitted", zap.Int("fields", summary.Len()))
		s.notifyStep()
		return
	}

	idx, ok := s.stateIndex[dst]
	if !ok {
		s.logger.Error("unknown state entered", zap.String("state", dst))
		return
	}
	s.activate(idx)
	s.logger.Debug("step changed", zap.Int("step", idx), zap.String("name", s.ActiveStep().Name))
	s.notifyStep()
}

// activate points the validator and ledger at step idx.
func (s *Session) activate(idx int) {
	step, _ := s.catalog.Step(idx)
	s.step = idx
	s.validator = validation.New(step, s.postcode)
	s.ledger.Initialise(step.FieldNames())
}

func (s *Session) notifyStep() {
	if s.listener != nil {
		s.listener.StepChanged(s.State())
	}
}

// Advance validates the active step and, when it is clean, moves to the next
// step or submits the form from the last one.
func (s *Session) Advance(ctx context.Context) (Result, error) {
	return s.fire(ctx, EventNext)
}

// Retreat validates the active step and, when it is clean, moves back one
// step. Retreating from the first step leaves the index at 0.
func (s *Session) Retreat(ctx context.Context) (Result, error) {
	return s.fire(ctx, EventBack)
}

func (s *Session) fire(ctx context.Context, event string) (Result, error) {
	if s.summary != nil {
		return Blocked, ErrSubmitted
	}
	if ctx == nil {
		ctx = context.Background()
	}

	err := s.machine.Event(ctx, event)
	if err == nil {
		if s.summary != nil {
			return Submitted, nil
		}
		return Moved, nil
	}

	var canceled fsm.CanceledError
	if errors.As(err, &canceled) {
		return Blocked, nil
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		// back from the first step re-initialises the ledger like any other
		// step entry
		s.activate(s.step)
		return Clamped, nil
	}
	return Blocked, fmt.Errorf("session: %s: %w", event, err)
}

// FieldChanged handles a value change for one field: the value is written to
// the source when it accepts writes, then that field alone is validated and
// the ledger updated. The step never changes here.
func (s *Session) FieldChanged(field, value string) []string {
	if sink, ok := s.source.(validation.FieldSink); ok {
		sink.SetValue(field, value)
	}
	return s.validator.ValidateField(s.ledger, field, value)
}

// FieldBlurred handles focus leaving a field. It behaves like FieldChanged.
func (s *Session) FieldBlurred(field, value string) []string {
	return s.FieldChanged(field, value)
}

// Validate evaluates value against the active step's rules for field without
// touching the ledger.
func (s *Session) Validate(field, value string) []string {
	return s.validator.Validate(field, value)
}

// ValidateForm re-validates every field of the active step from the source.
func (s *Session) ValidateForm() {
	s.validator.ValidateForm(s.source, s.ledger)
}

// Step returns the zero-based index of the active step.
func (s *Session) Step() int {
	return s.step
}

// Total returns the number of steps.
func (s *Session) Total() int {
	return s.catalog.Len()
}

// IsSubmitted reports whether the form reached the submitted state.
func (s *Session) IsSubmitted() bool {
	return s.summary != nil
}

// State returns a snapshot of the session position.
func (s *Session) State() State {
	name := stateName(s.step)
	if s.summary != nil {
		name = StateSubmitted
	}
	return State{
		Step:      s.step,
		Total:     s.catalog.Len(),
		Name:      name,
		Submitted: s.summary != nil,
	}
}

// ActiveStep returns the catalog step currently being edited.
func (s *Session) ActiveStep() catalog.Step {
	step, _ := s.catalog.Step(s.step)
	return step
}

// Catalog returns a copy of the session's catalog.
func (s *Session) Catalog() catalog.Catalog {
	return s.catalog.Clone()
}

// Source returns the field source backing the session.
func (s *Session) Source() validation.FieldSource {
	return s.source
}

// Ledger exposes the active step's error ledger for rendering.
func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

// Errors returns the current messages for field.
func (s *Session) Errors(field string) []string {
	return s.ledger.Get(field)
}

// HasErrors reports whether any field of the active step is invalid.
func (s *Session) HasErrors() bool {
	return s.ledger.Any()
}

// Summary returns the submitted values once the form is submitted.
func (s *Session) Summary() (Summary, bool) {
	if s.summary == nil {
		return Summary{}, false
	}
	return *s.summary, true
}

// Buttons reports the navigation control state: back is disabled on the
// first step or while errors exist, next is disabled while errors exist and
// reads "Submit" on the last step.
func (s *Session) Buttons() Buttons {
	hasErrors := s.ledger.Any()
	label := "Next"
	if s.step == s.catalog.Len()-1 {
		label = "Submit"
	}
	return Buttons{
		BackDisabled: s.step == 0 || hasErrors,
		NextDisabled: hasErrors,
		NextLabel:    label,
	}
}

// Progress returns completion as a percentage of steps passed.
func (s *Session) Progress() float64 {
	total := s.catalog.Len()
	if total == 0 {
		return 0
	}
	if s.summary != nil {
		return 100
	}
	return float64(s.step) / float64(total) * 100
}

func (s *Session) invalidFields() []string {
	var out []string
	for _, field := range s.ledger.Fields() {
		if len(s.ledger.Get(field)) > 0 {
			out = append(out, field)
		}
	}
	return out
}
