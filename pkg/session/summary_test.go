package session_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-stepform/pkg/rules"
	"github.com/goliatone/go-stepform/pkg/session"
	"github.com/goliatone/go-stepform/pkg/testsupport"
)

func TestSummary_ShippingCatalogGolden(t *testing.T) {
	ctx := context.Background()
	cat := testsupport.MustLoadCatalog(t, filepath.Join("..", "catalog", "testdata", "shipping.yaml"))
	s := testsupport.NewSession(t, cat)

	testsupport.Fill(s, map[string]string{"full_name": "Grace Hopper", "email": "grace@navy.mil"})
	if res, err := s.Advance(ctx); err != nil || res != session.Moved {
		t.Fatalf("advance: %s %v", res, err)
	}

	// the catalog narrows postcodes to 1000-2999
	testsupport.Fill(s, map[string]string{"weight": "2.5", "postcode": "3000"})
	if got := s.Errors("postcode"); len(got) != 1 || got[0] != rules.MessagePostcode {
		t.Fatalf("expected postcode error, got %v", got)
	}
	s.FieldChanged("postcode", "2000")

	res, err := s.Advance(ctx)
	if err != nil || res != session.Submitted {
		t.Fatalf("submit: %s %v", res, err)
	}
	summary, _ := s.Summary()

	golden := filepath.Join("testdata", "shipping_summary.golden.json")
	if testsupport.WriteGolden(t, golden, summary.Entries()) {
		return
	}
	var want []session.Entry
	testsupport.MustLoadGoldenJSON(t, golden, &want)
	if diff := testsupport.CompareGolden(want, summary.Entries()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}
