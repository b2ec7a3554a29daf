package ledger

// ChangeFunc observes a field's error list after every mutation.
type ChangeFunc func(field string, messages []string)

// Ledger tracks the current validation messages for each field of the active
// step. Its keys always equal the field names passed to Initialise; writes to
// other names are ignored.
type Ledger struct {
	fields   []string
	errors   map[string][]string
	onChange ChangeFunc
}

// New returns a ledger initialised with fields.
func New(fields []string) *Ledger {
	l := &Ledger{}
	l.Initialise(fields)
	return l
}

// OnChange registers fn to run after Record and Clear. Passing nil removes the
// hook.
func (l *Ledger) OnChange(fn ChangeFunc) {
	l.onChange = fn
}

// Initialise resets the ledger so it holds exactly fields, each with no
// messages.
func (l *Ledger) Initialise(fields []string) {
	l.fields = make([]string, 0, len(fields))
	l.errors = make(map[string][]string, len(fields))
	for _, field := range fields {
		if _, exists := l.errors[field]; exists {
			continue
		}
		l.fields = append(l.fields, field)
		l.errors[field] = []string{}
	}
}

// Record replaces the field's messages. An empty slice behaves like Clear.
func (l *Ledger) Record(field string, messages []string) {
	if _, ok := l.errors[field]; !ok {
		return
	}
	l.errors[field] = append([]string{}, messages...)
	l.notify(field)
}

// Clear empties the field's messages.
func (l *Ledger) Clear(field string) {
	l.Record(field, nil)
}

// Any reports whether at least one field has messages.
func (l *Ledger) Any() bool {
	for _, messages := range l.errors {
		if len(messages) > 0 {
			return true
		}
	}
	return false
}

// Get returns a copy of the field's messages; unknown fields yield nil.
func (l *Ledger) Get(field string) []string {
	messages, ok := l.errors[field]
	if !ok {
		return nil
	}
	return append([]string{}, messages...)
}

// Has reports whether field is tracked.
func (l *Ledger) Has(field string) bool {
	_, ok := l.errors[field]
	return ok
}

// Fields returns the tracked field names in initialisation order.
func (l *Ledger) Fields() []string {
	return append([]string(nil), l.fields...)
}

// Snapshot copies the full ledger.
func (l *Ledger) Snapshot() map[string][]string {
	out := make(map[string][]string, len(l.errors))
	for field, messages := range l.errors {
		out[field] = append([]string{}, messages...)
	}
	return out
}

func (l *Ledger) notify(field string) {
	if l.onChange != nil {
		l.onChange(field, l.Get(field))
	}
}
