package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/rules"
	"github.com/goliatone/go-stepform/pkg/session"
	"github.com/goliatone/go-stepform/pkg/validation"
)

type recordingListener struct {
	steps  []session.State
	errors map[string][]string
}

func (r *recordingListener) FieldErrors(field string, messages []string) {
	if r.errors == nil {
		r.errors = make(map[string][]string)
	}
	r.errors[field] = messages
}

func (r *recordingListener) StepChanged(state session.State) {
	r.steps = append(r.steps, state)
}

func newContactSession(t *testing.T, opts ...session.Option) *session.Session {
	t.Helper()
	opts = append([]session.Option{session.WithLogger(zaptest.NewLogger(t))}, opts...)
	s, err := session.New(catalog.Default(), opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func fillContact(s *session.Session) {
	s.FieldChanged("first_name", "Ada")
	s.FieldChanged("last_name", "Lovelace")
	s.FieldChanged("email", "ada@example.com")
	s.FieldChanged("phone", "0412345678")
}

func fillAddress(s *session.Session) {
	s.FieldChanged("street_number", "12")
	s.FieldChanged("street_name", "Analytical")
	s.FieldChanged("street_type", "Street")
	s.FieldChanged("suburb", "Marylebone")
	s.FieldChanged("postcode", "3000")
}

func TestSession_AdvanceWithValidStep(t *testing.T) {
	ctx := context.Background()
	s := newContactSession(t)
	fillContact(s)

	res, err := s.Advance(ctx)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res != session.Moved {
		t.Fatalf("expected moved, got %s", res)
	}
	if s.Step() != 1 {
		t.Fatalf("expected step 1, got %d", s.Step())
	}

	want := map[string][]string{
		"street_number": {},
		"street_name":   {},
		"street_type":   {},
		"suburb":        {},
		"postcode":      {},
	}
	if diff := cmp.Diff(want, s.Ledger().Snapshot()); diff != "" {
		t.Fatalf("ledger after step change mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_AdvanceBlockedOnInvalidField(t *testing.T) {
	ctx := context.Background()
	s := newContactSession(t)
	fillContact(s)
	if _, err := s.Advance(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}

	fillAddress(s)
	s.FieldChanged("postcode", "8000")

	res, err := s.Advance(ctx)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res != session.Blocked {
		t.Fatalf("expected blocked, got %s", res)
	}
	if s.Step() != 1 {
		t.Fatalf("expected to stay on step 1, got %d", s.Step())
	}
	if !s.HasErrors() {
		t.Fatalf("expected ledger errors")
	}
	if diff := cmp.Diff([]string{rules.MessagePostcode}, s.Errors("postcode")); diff != "" {
		t.Fatalf("postcode errors mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Summary(); ok {
		t.Fatalf("summary must not exist after a blocked submit")
	}
}

func TestSession_GuardUsesFreshValues(t *testing.T) {
	ctx := context.Background()
	src := validation.NewMapSource("first_name", "last_name", "email", "phone")
	s := newContactSession(t, session.WithSource(src))

	fillContact(s)
	if s.HasErrors() {
		t.Fatalf("expected clean ledger after live validation")
	}

	// the adapter changes a value without emitting a change event
	src.SetValue("email", "broken")

	res, err := s.Advance(ctx)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res != session.Blocked {
		t.Fatalf("stale ledger authorised a transition: %s", res)
	}
	if diff := cmp.Diff([]string{rules.MessageEmail}, s.Errors("email")); diff != "" {
		t.Fatalf("email errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_RetreatClampedAtFirstStep(t *testing.T) {
	ctx := context.Background()
	s := newContactSession(t)
	fillContact(s)

	res, err := s.Retreat(ctx)
	if err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if res != session.Clamped {
		t.Fatalf("expected clamped, got %s", res)
	}
	if s.Step() != 0 {
		t.Fatalf("expected step 0, got %d", s.Step())
	}
}

func TestSession_RetreatBlockedByErrors(t *testing.T) {
	ctx := context.Background()
	s := newContactSession(t)
	fillContact(s)
	if _, err := s.Advance(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}

	s.FieldChanged("street_number", "1oo")
	res, err := s.Retreat(ctx)
	if err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if res != session.Blocked || s.Step() != 1 {
		t.Fatalf("expected blocked on step 1, got %s on %d", res, s.Step())
	}

	fillAddress(s)
	res, err = s.Retreat(ctx)
	if err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if res != session.Moved || s.Step() != 0 {
		t.Fatalf("expected move back to step 0, got %s on %d", res, s.Step())
	}
	if diff := cmp.Diff([]string{"first_name", "last_name", "email", "phone"}, s.Ledger().Fields()); diff != "" {
		t.Fatalf("ledger fields mismatch (-want +got):\n%s", diff)
	}
	if s.HasErrors() {
		t.Fatalf("ledger should be empty after re-initialisation")
	}
}

func TestSession_SubmitProducesSummary(t *testing.T) {
	ctx := context.Background()
	listener := &recordingListener{}
	s := newContactSession(t, session.WithListener(listener))

	fillContact(s)
	if res, _ := s.Advance(ctx); res != session.Moved {
		t.Fatalf("expected moved, got %s", res)
	}
	fillAddress(s)
	res, err := s.Advance(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res != session.Submitted {
		t.Fatalf("expected submitted, got %s", res)
	}

	summary, ok := s.Summary()
	if !ok {
		t.Fatalf("expected summary")
	}
	entries := summary.Entries()
	if len(entries) != 9 {
		t.Fatalf("expected 9 entries, got %d", len(entries))
	}
	if diff := cmp.Diff(session.Entry{Field: "street_number", Label: "Street Number", Value: "12"}, entries[4]); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
	if v, _ := summary.Value("email"); v != "ada@example.com" {
		t.Fatalf("unexpected email %q", v)
	}

	entries[0].Value = "tampered"
	if v, _ := summary.Value("first_name"); v != "Ada" {
		t.Fatalf("summary entries are not read-only copies")
	}

	wantStates := []session.State{
		{Step: 1, Total: 2, Name: "step_1"},
		{Step: 1, Total: 2, Name: session.StateSubmitted, Submitted: true},
	}
	if diff := cmp.Diff(wantStates, listener.steps); diff != "" {
		t.Fatalf("listener steps mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Advance(ctx); !errors.Is(err, session.ErrSubmitted) {
		t.Fatalf("expected ErrSubmitted, got %v", err)
	}
	if _, err := s.Retreat(ctx); !errors.Is(err, session.ErrSubmitted) {
		t.Fatalf("expected ErrSubmitted on retreat, got %v", err)
	}
	if s.Progress() != 100 {
		t.Fatalf("expected full progress, got %v", s.Progress())
	}
}

func TestSession_LiveValidationDoesNotMove(t *testing.T) {
	listener := &recordingListener{}
	s := newContactSession(t, session.WithListener(listener))

	msgs := s.FieldBlurred("email", "abc@gmail")
	if diff := cmp.Diff([]string{rules.MessageEmail}, msgs); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if s.Step() != 0 || len(listener.steps) != 0 {
		t.Fatalf("field events must not change step")
	}
	if diff := cmp.Diff([]string{rules.MessageEmail}, listener.errors["email"]); diff != "" {
		t.Fatalf("listener errors mismatch (-want +got):\n%s", diff)
	}

	s.FieldChanged("email", "abc@gmail.com")
	if len(listener.errors["email"]) != 0 {
		t.Fatalf("expected cleared email errors, got %v", listener.errors["email"])
	}
}

func TestSession_ButtonsAndProgress(t *testing.T) {
	ctx := context.Background()
	s := newContactSession(t)

	if diff := cmp.Diff(session.Buttons{BackDisabled: true, NextLabel: "Next"}, s.Buttons()); diff != "" {
		t.Fatalf("initial buttons mismatch (-want +got):\n%s", diff)
	}
	if s.Progress() != 0 {
		t.Fatalf("expected 0 progress, got %v", s.Progress())
	}

	s.FieldChanged("first_name", " ")
	if diff := cmp.Diff(session.Buttons{BackDisabled: true, NextDisabled: true, NextLabel: "Next"}, s.Buttons()); diff != "" {
		t.Fatalf("buttons with errors mismatch (-want +got):\n%s", diff)
	}

	fillContact(s)
	if _, err := s.Advance(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if diff := cmp.Diff(session.Buttons{NextLabel: "Submit"}, s.Buttons()); diff != "" {
		t.Fatalf("last step buttons mismatch (-want +got):\n%s", diff)
	}
	if s.Progress() != 50 {
		t.Fatalf("expected 50 progress, got %v", s.Progress())
	}
}

func TestSession_PostcodeRangeOverride(t *testing.T) {
	ctx := context.Background()
	s := newContactSession(t, session.WithPostcodeRange(rules.PostcodeRange{Min: 8000, Max: 8999}))
	fillContact(s)
	if _, err := s.Advance(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if msgs := s.Validate("postcode", "8000"); len(msgs) != 0 {
		t.Fatalf("expected 8000 valid with override, got %v", msgs)
	}
	if msgs := s.Validate("postcode", "3000"); len(msgs) == 0 {
		t.Fatalf("expected 3000 invalid with override")
	}
}

func TestNew_RejectsEmptyCatalog(t *testing.T) {
	if _, err := session.New(catalog.Catalog{}); err == nil {
		t.Fatalf("expected error for catalog without steps")
	}
}
