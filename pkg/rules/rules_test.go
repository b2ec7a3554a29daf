package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluatorCheck(t *testing.T) {
	eval := Evaluator{}

	cases := []struct {
		name  string
		rule  Rule
		value string
		want  string
	}{
		{name: "required empty", rule: Required, value: "", want: MessageRequired},
		{name: "required whitespace", rule: Required, value: " \t\n ", want: MessageRequired},
		{name: "required filled", rule: Required, value: "Ada", want: ""},
		{name: "email short tld", rule: Email, value: "a@b.co", want: ""},
		{name: "email missing tld", rule: Email, value: "abc@gmail", want: MessageEmail},
		{name: "email bracket ip", rule: Email, value: "ops@[10.0.0.1]", want: ""},
		{name: "email quoted local", rule: Email, value: `"john doe"@example.org`, want: ""},
		{name: "email no at", rule: Email, value: "example.org", want: MessageEmail},
		{name: "email one letter tld", rule: Email, value: "a@b.c", want: MessageEmail},
		{name: "email empty", rule: Email, value: "", want: MessageEmail},
		{name: "phone blank", rule: Phone, value: "   ", want: ""},
		{name: "phone mobile", rule: Phone, value: "0412345678", want: ""},
		{name: "phone padded", rule: Phone, value: " 0412345678 ", want: ""},
		{name: "phone short", rule: Phone, value: "0422311", want: MessagePhone},
		{name: "phone second digit nine", rule: Phone, value: "0912345678", want: MessagePhone},
		{name: "phone spaces", rule: Phone, value: "04 1234 5678", want: MessagePhone},
		{name: "phone no leading zero", rule: Phone, value: "4123456789", want: MessagePhone},
		{name: "postcode lower bound", rule: Postcode, value: "0800", want: ""},
		{name: "postcode upper bound", rule: Postcode, value: "7999", want: ""},
		{name: "postcode mid", rule: Postcode, value: "3000", want: ""},
		{name: "postcode below range", rule: Postcode, value: "0100", want: MessagePostcode},
		{name: "postcode above range", rule: Postcode, value: "8000", want: MessagePostcode},
		{name: "postcode three digits", rule: Postcode, value: "100", want: MessagePostcode},
		{name: "postcode letters", rule: Postcode, value: "30a0", want: MessagePostcode},
		{name: "postcode padded", rule: Postcode, value: " 3000", want: MessagePostcode},
		{name: "numeric int", rule: Numeric, value: "123", want: ""},
		{name: "numeric float", rule: Numeric, value: "12.5", want: ""},
		{name: "numeric letters", rule: Numeric, value: "1oo", want: MessageNumeric},
		{name: "numeric empty", rule: Numeric, value: "", want: MessageNumeric},
		{name: "numeric nan", rule: Numeric, value: "NaN", want: MessageNumeric},
		{name: "numeric overflowing exponent", rule: Numeric, value: "1e400", want: ""},
		{name: "numeric signed exponent", rule: Numeric, value: "-2.5E-3", want: ""},
		{name: "numeric leading dot", rule: Numeric, value: ".5", want: ""},
		{name: "numeric trailing dot", rule: Numeric, value: "5.", want: ""},
		{name: "numeric padded", rule: Numeric, value: " 42 ", want: ""},
		{name: "numeric hex", rule: Numeric, value: "0x1F", want: ""},
		{name: "numeric octal", rule: Numeric, value: "0o17", want: ""},
		{name: "numeric binary", rule: Numeric, value: "0b101", want: ""},
		{name: "numeric signed hex", rule: Numeric, value: "-0x1F", want: MessageNumeric},
		{name: "numeric infinity", rule: Numeric, value: "-Infinity", want: ""},
		{name: "numeric short inf", rule: Numeric, value: "inf", want: MessageNumeric},
		{name: "numeric lowercase infinity", rule: Numeric, value: "infinity", want: MessageNumeric},
		{name: "numeric lone dot", rule: Numeric, value: ".", want: MessageNumeric},
		{name: "numeric separators", rule: Numeric, value: "1_000", want: MessageNumeric},
		{name: "numeric inner space", rule: Numeric, value: "1 2", want: MessageNumeric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := eval.Check(tc.rule, tc.value); got != tc.want {
				t.Fatalf("Check(%s, %q) = %q, want %q", tc.rule, tc.value, got, tc.want)
			}
		})
	}
}

func TestEvaluatorCheck_CustomPostcodeRange(t *testing.T) {
	eval := NewEvaluator(PostcodeRange{Min: 1000, Max: 1999})

	if got := eval.Check(Postcode, "0800"); got != MessagePostcode {
		t.Fatalf("expected 0800 outside custom range, got %q", got)
	}
	if got := eval.Check(Postcode, "1500"); got != "" {
		t.Fatalf("expected 1500 inside custom range, got %q", got)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(" Email ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != Email {
		t.Fatalf("expected email rule, got %q", got)
	}

	if _, err := Parse("zipcode"); err == nil {
		t.Fatalf("expected unknown rule error")
	}
}

func TestRuleUnmarshalText(t *testing.T) {
	var got []Rule
	for _, raw := range []string{"required", "postcode"} {
		var r Rule
		if err := r.UnmarshalText([]byte(raw)); err != nil {
			t.Fatalf("unmarshal %q: %v", raw, err)
		}
		got = append(got, r)
	}
	if diff := cmp.Diff([]Rule{Required, Postcode}, got); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	var r Rule
	if err := r.UnmarshalText([]byte("uppercase")); err == nil {
		t.Fatalf("expected error for unknown rule")
	}
}

func TestMessagesCoverEveryRule(t *testing.T) {
	for _, rule := range All() {
		if rule.Message() == "" {
			t.Fatalf("rule %s has no message", rule)
		}
	}
}
