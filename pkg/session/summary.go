package session

import (
	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/validation"
)

// Entry is one submitted value with its display label.
type Entry struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary is the read-only snapshot taken when the last step is submitted.
type Summary struct {
	entries []Entry
}

// Entries returns a copy of the submitted entries in display order.
func (s Summary) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Len reports the number of entries.
func (s Summary) Len() int {
	return len(s.entries)
}

// Value returns the submitted value for field.
func (s Summary) Value(field string) (string, bool) {
	for _, e := range s.entries {
		if e.Field == field {
			return e.Value, true
		}
	}
	return "", false
}

// Values returns the submitted values keyed by field name.
func (s Summary) Values() map[string]string {
	out := make(map[string]string, len(s.entries))
	for _, e := range s.entries {
		out[e.Field] = e.Value
	}
	return out
}

func snapshot(cat catalog.Catalog, src validation.FieldSource) Summary {
	if src == nil {
		return Summary{}
	}

	labels := make(map[string]string)
	for _, field := range cat.AllFields() {
		labels[field.Name] = field.DisplayLabel()
	}

	names := src.Fields()
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		value, _ := src.Value(name)
		label, ok := labels[name]
		if !ok {
			label = catalog.Humanize(name)
		}
		entries = append(entries, Entry{Field: name, Label: label, Value: value})
	}
	return Summary{entries: entries}
}
