package validation

import (
	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/ledger"
	"github.com/goliatone/go-stepform/pkg/rules"
)

// Validator evaluates field values against the rules of a single step. It
// holds no state besides its rule table, so Validate is idempotent.
type Validator struct {
	step  catalog.Step
	rules map[string][]rules.Rule
	eval  rules.Evaluator
}

// New builds a validator for step using the given postcode range.
func New(step catalog.Step, postcode rules.PostcodeRange) *Validator {
	return &Validator{
		step:  step,
		rules: step.RuleSet(),
		eval:  rules.NewEvaluator(postcode),
	}
}

// Step returns the step whose rules this validator applies.
func (v *Validator) Step() catalog.Step {
	return v.step
}

// Rules returns a copy of the rules declared for field.
func (v *Validator) Rules(field string) []rules.Rule {
	return append([]rules.Rule(nil), v.rules[field]...)
}

// Validate runs every rule declared for field, in order, and returns one
// message per failing rule. Fields without rules are always valid.
func (v *Validator) Validate(field, value string) []string {
	declared := v.rules[field]
	if len(declared) == 0 {
		return nil
	}

	var messages []string
	for _, rule := range declared {
		if msg := v.eval.Check(rule, value); msg != "" {
			messages = append(messages, msg)
		}
	}
	return messages
}

// ValidateField validates one field and records or clears the outcome in l.
func (v *Validator) ValidateField(l *ledger.Ledger, field, value string) []string {
	messages := v.Validate(field, value)
	if len(messages) > 0 {
		l.Record(field, messages)
	} else {
		l.Clear(field)
	}
	return messages
}

// ValidateForm validates every field declared for the step, reading values
// from src. Fields absent from src are validated as empty strings, so a
// required field the adapter forgot to render still blocks navigation. When
// it returns, l reflects the current validity of the whole step.
func (v *Validator) ValidateForm(src FieldSource, l *ledger.Ledger) {
	for _, field := range v.step.Fields {
		value := ""
		if src != nil {
			value, _ = src.Value(field.Name)
		}
		v.ValidateField(l, field.Name, value)
	}
}
