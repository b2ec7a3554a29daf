package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rule identifies a single field check. The set is closed: every value listed
// below has exactly one evaluation branch in Evaluator.Check.
type Rule string

const (
	Required Rule = "required"
	Email    Rule = "email"
	Phone    Rule = "phone"
	Postcode Rule = "postcode"
	Numeric  Rule = "numeric"
)

// Fixed user-facing messages, one per rule.
const (
	MessageRequired = "Field cannot be empty"
	MessageEmail    = "Not a valid email"
	MessagePhone    = "Not a valid phone number"
	MessagePostcode = "Not a valid postcode"
	MessageNumeric  = "Not a valid number"
)

// All lists every known rule in declaration order.
func All() []Rule {
	return []Rule{Required, Email, Phone, Postcode, Numeric}
}

// Parse resolves a rule identifier, rejecting unknown names.
func Parse(raw string) (Rule, error) {
	rule := Rule(strings.ToLower(strings.TrimSpace(raw)))
	if !rule.Valid() {
		return "", fmt.Errorf("rules: unknown rule %q", raw)
	}
	return rule, nil
}

// Valid reports whether r is one of the known rules.
func (r Rule) Valid() bool {
	switch r {
	case Required, Email, Phone, Postcode, Numeric:
		return true
	}
	return false
}

func (r Rule) String() string {
	return string(r)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so catalog files reject
// unknown identifiers at decode time.
func (r *Rule) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Message returns the fixed failure message for r.
func (r Rule) Message() string {
	switch r {
	case Required:
		return MessageRequired
	case Email:
		return MessageEmail
	case Phone:
		return MessagePhone
	case Postcode:
		return MessagePostcode
	case Numeric:
		return MessageNumeric
	}
	return ""
}

// PostcodeRange bounds the numeric value of a four digit postcode, inclusive.
type PostcodeRange struct {
	Min int `json:"min" yaml:"min" mapstructure:"min" validate:"gte=0,lte=9999"`
	Max int `json:"max" yaml:"max" mapstructure:"max" validate:"gte=0,lte=9999,gtefield=Min"`
}

// DefaultPostcodeRange matches the regional range the contact form was built
// around.
func DefaultPostcodeRange() PostcodeRange {
	return PostcodeRange{Min: 800, Max: 7999}
}

// IsZero reports whether both bounds are unset.
func (p PostcodeRange) IsZero() bool {
	return p.Min == 0 && p.Max == 0
}

// Contains reports whether n lies within the range.
func (p PostcodeRange) Contains(n int) bool {
	return n >= p.Min && n <= p.Max
}

var (
	emailPattern    = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
	phonePattern    = regexp.MustCompile(`^0[0-8][0-9]{8}$`)
	postcodePattern = regexp.MustCompile(`^[0-9]{4}$`)

	decimalPattern     = regexp.MustCompile(`^[+-]?(Infinity|([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?)$`)
	prefixedIntPattern = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// Evaluator runs rules against raw string values. The zero value uses the
// default postcode range.
type Evaluator struct {
	Postcode PostcodeRange
}

// NewEvaluator returns an evaluator using the given postcode range, falling
// back to DefaultPostcodeRange when the range is zero.
func NewEvaluator(postcode PostcodeRange) Evaluator {
	return Evaluator{Postcode: postcode}
}

// Check evaluates rule against value and returns the failure message, or ""
// when the value passes. Every rule is total over string input.
func (e Evaluator) Check(rule Rule, value string) string {
	var ok bool
	switch rule {
	case Required:
		ok = strings.TrimSpace(value) != ""
	case Email:
		ok = IsEmail(value)
	case Phone:
		ok = IsPhone(value)
	case Postcode:
		ok = IsPostcode(value, e.postcodeRange())
	case Numeric:
		ok = IsNumeric(value)
	default:
		// undeclared rules never fail; catalogs reject them on load
		ok = true
	}
	if ok {
		return ""
	}
	return rule.Message()
}

func (e Evaluator) postcodeRange() PostcodeRange {
	if e.Postcode.IsZero() {
		return DefaultPostcodeRange()
	}
	return e.Postcode
}

// IsEmail reports whether value looks like local-part@domain.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsPhone accepts blank values and ten digit numbers starting with 0 followed
// by a digit in 0-8.
func IsPhone(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	return phonePattern.MatchString(trimmed)
}

// IsPostcode requires exactly four ASCII digits whose value is inside bounds.
func IsPostcode(value string, bounds PostcodeRange) bool {
	if !postcodePattern.MatchString(value) {
		return false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	return bounds.Contains(n)
}

// IsNumeric reports whether value reads as a number after trimming: a signed
// decimal with optional fraction and exponent, a signed Infinity, or an
// unsigned 0x, 0o or 0b integer. Magnitude is not checked, so "1e400" passes.
// Blank input fails.
func IsNumeric(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	return decimalPattern.MatchString(trimmed) || prefixedIntPattern.MatchString(trimmed)
}
