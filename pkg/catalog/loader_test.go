package catalog_test

import (
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/rules"
)

func TestDefault_ContactForm(t *testing.T) {
	cat := catalog.Default()

	if cat.Len() != 2 {
		t.Fatalf("expected 2 steps, got %d", cat.Len())
	}

	first, _ := cat.Step(0)
	if diff := cmp.Diff([]string{"first_name", "last_name", "email", "phone"}, first.FieldNames()); diff != "" {
		t.Fatalf("step 0 fields mismatch (-want +got):\n%s", diff)
	}
	second, _ := cat.Step(1)
	if diff := cmp.Diff([]string{"street_number", "street_name", "street_type", "suburb", "postcode"}, second.FieldNames()); diff != "" {
		t.Fatalf("step 1 fields mismatch (-want +got):\n%s", diff)
	}

	wantRules := map[string][]rules.Rule{
		"street_number": {rules.Required, rules.Numeric},
		"street_name":   {rules.Required},
		"street_type":   {rules.Required},
		"suburb":        {rules.Required},
		"postcode":      {rules.Required, rules.Postcode},
	}
	if diff := cmp.Diff(wantRules, second.RuleSet()); diff != "" {
		t.Fatalf("step 1 rules mismatch (-want +got):\n%s", diff)
	}

	if got := cat.PostcodeRange(); got != rules.DefaultPostcodeRange() {
		t.Fatalf("unexpected postcode range %+v", got)
	}
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := catalog.Default()
	a.Steps[0].Fields[0].Rules[0] = rules.Numeric

	b := catalog.Default()
	if b.Steps[0].Fields[0].Rules[0] != rules.Required {
		t.Fatalf("mutation leaked into shared default catalog")
	}
}

func TestParse_JSONAndYAMLAgree(t *testing.T) {
	fsys := os.DirFS("testdata")

	fromJSON, err := catalog.LoadFS(fsys, "shipping.json")
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	fromYAML, err := catalog.LoadFS(fsys, "shipping.yaml")
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}

	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Fatalf("json/yaml catalogs differ (-json +yaml):\n%s", diff)
	}
	if got := fromJSON.PostcodeRange(); got != (rules.PostcodeRange{Min: 1000, Max: 2999}) {
		t.Fatalf("unexpected postcode range %+v", got)
	}
	weight, ok := fromJSON.Steps[1].Field("weight")
	if !ok || weight.Label != "Weight (kg)" {
		t.Fatalf("expected weight label, got %+v", weight)
	}
}

func TestParse_Rejections(t *testing.T) {
	cases := map[string]string{
		"unknown_rule.yaml":    "zipcode",
		"duplicate_field.yaml": "duplicate field",
		"inverted_range.yaml":  "gtefield",
	}

	fsys := os.DirFS("testdata")
	for file, wantFragment := range cases {
		t.Run(file, func(t *testing.T) {
			_, err := catalog.LoadFS(fsys, file)
			if err == nil {
				t.Fatalf("expected error for %s", file)
			}
			if !strings.Contains(err.Error(), wantFragment) {
				t.Fatalf("expected error to mention %q, got %v", wantFragment, err)
			}
		})
	}
}

func TestParse_EmptyAndStepless(t *testing.T) {
	if _, err := catalog.Parse([]byte("   "), "blank.yaml"); err == nil {
		t.Fatalf("expected error for blank catalog")
	}

	fsys := fstest.MapFS{
		"none.yaml": {Data: []byte("steps: []\n")},
	}
	if _, err := catalog.LoadFS(fsys, "none.yaml"); err == nil {
		t.Fatalf("expected error for catalog without steps")
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"street_number": "Street Number",
		"email":         "Email",
		"post__code":    "Post  Code",
		"":              "",
	}
	for in, want := range cases {
		if got := catalog.Humanize(in); got != want {
			t.Fatalf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}

	field := catalog.Field{Name: "weight", Label: "Weight (kg)"}
	if got := field.DisplayLabel(); got != "Weight (kg)" {
		t.Fatalf("expected explicit label, got %q", got)
	}
}
