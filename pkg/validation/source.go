package validation

// FieldSource is implemented by presentation adapters. It enumerates the
// fields the adapter currently knows about and reads their raw values.
type FieldSource interface {
	Fields() []string
	Value(field string) (string, bool)
}

// FieldSink is an optional FieldSource extension for adapters whose values
// can be written through the session (terminal prompts, form posts).
type FieldSink interface {
	SetValue(field, value string)
}

// MapSource is an ordered in-memory FieldSource. Field order follows first
// insertion. It is not safe for concurrent use.
type MapSource struct {
	order  []string
	values map[string]string
}

// NewMapSource seeds a source with the given field names, all empty.
func NewMapSource(fields ...string) *MapSource {
	s := &MapSource{values: make(map[string]string, len(fields))}
	for _, field := range fields {
		s.Declare(field)
	}
	return s
}

// Declare registers field with an empty value when it is not known yet.
func (s *MapSource) Declare(field string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[field]; ok {
		return
	}
	s.order = append(s.order, field)
	s.values[field] = ""
}

// SetValue stores value, declaring the field if needed.
func (s *MapSource) SetValue(field, value string) {
	s.Declare(field)
	s.values[field] = value
}

// Fields implements FieldSource.
func (s *MapSource) Fields() []string {
	return append([]string(nil), s.order...)
}

// Value implements FieldSource.
func (s *MapSource) Value(field string) (string, bool) {
	value, ok := s.values[field]
	return value, ok
}

// Values copies every value keyed by field name.
func (s *MapSource) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for field, value := range s.values {
		out[field] = value
	}
	return out
}
