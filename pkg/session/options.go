package session

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/rules"
	"github.com/goliatone/go-stepform/pkg/validation"
)

// Option configures a Session.
type Option func(*Session)

// WithSource injects the presentation adapter's field source. When omitted
// the session keeps its own validation.MapSource seeded with every catalog
// field.
func WithSource(src validation.FieldSource) Option {
	return func(s *Session) {
		if src != nil {
			s.source = src
		}
	}
}

// WithListener registers an observer for error and step changes.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
	}
}

// WithLogger sets the logger used for transition diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPostcodeRange overrides the catalog's postcode bounds.
func WithPostcodeRange(r rules.PostcodeRange) Option {
	return func(s *Session) {
		if !r.IsZero() {
			s.postcode = r
		}
	}
}
