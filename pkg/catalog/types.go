package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-stepform/pkg/rules"
)

// Catalog is the static rule table for a multi-step form: an ordered list of
// steps, each with ordered fields and ordered rules.
type Catalog struct {
	Postcode rules.PostcodeRange `json:"postcode" yaml:"postcode"`
	Steps    []Step              `json:"steps" yaml:"steps" validate:"required,min=1,dive"`
}

// Step is one page of the form.
type Step struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields" validate:"dive"`
}

// Field declares a named input and the rules applied to it, in evaluation
// order. Options turns the field into a single choice select.
type Field struct {
	Name    string       `json:"name" yaml:"name" validate:"required"`
	Label   string       `json:"label,omitempty" yaml:"label,omitempty"`
	Options []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Rules   []rules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Len returns the number of steps.
func (c Catalog) Len() int {
	return len(c.Steps)
}

// Step returns the step at index, reporting false when out of range.
func (c Catalog) Step(index int) (Step, bool) {
	if index < 0 || index >= len(c.Steps) {
		return Step{}, false
	}
	return c.Steps[index], true
}

// PostcodeRange returns the configured range or the default when unset.
func (c Catalog) PostcodeRange() rules.PostcodeRange {
	if c.Postcode.IsZero() {
		return rules.DefaultPostcodeRange()
	}
	return c.Postcode
}

// FieldNames lists the step's field names in declaration order.
func (s Step) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Field looks up a field by name.
func (s Step) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// RuleSet maps field names to their ordered rules. The slices are copies.
func (s Step) RuleSet() map[string][]rules.Rule {
	out := make(map[string][]rules.Rule, len(s.Fields))
	for _, field := range s.Fields {
		out[field.Name] = append([]rules.Rule(nil), field.Rules...)
	}
	return out
}

// AllFields returns every field across all steps, in step then declaration
// order.
func (c Catalog) AllFields() []Field {
	var out []Field
	for _, step := range c.Steps {
		out = append(out, step.Fields...)
	}
	return out
}

// Clone returns a deep copy so callers can tweak a catalog without touching
// shared instances.
func (c Catalog) Clone() Catalog {
	out := Catalog{Postcode: c.Postcode}
	if len(c.Steps) == 0 {
		return out
	}
	out.Steps = make([]Step, len(c.Steps))
	for i, step := range c.Steps {
		cloned := step
		cloned.Fields = make([]Field, len(step.Fields))
		for j, field := range step.Fields {
			f := field
			f.Options = append([]string(nil), field.Options...)
			f.Rules = append([]rules.Rule(nil), field.Rules...)
			cloned.Fields[j] = f
		}
		out.Steps[i] = cloned
	}
	return out
}

// DisplayLabel returns the explicit label or a title-cased form of the name.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return Humanize(f.Name)
}

// Humanize turns a snake_case field name into title-cased words:
// "street_number" becomes "Street Number".
func Humanize(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		parts[i] = string(unicode.ToUpper(r)) + part[size:]
	}
	return strings.Join(parts, " ")
}
