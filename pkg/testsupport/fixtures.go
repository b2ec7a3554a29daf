package testsupport

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/session"
)

// MustLoadCatalog reads a catalog fixture, failing the test on error.
func MustLoadCatalog(t *testing.T, path string) catalog.Catalog {
	t.Helper()

	cat, err := catalog.LoadFile(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

// NewSession builds a session over cat with a test logger attached.
func NewSession(t *testing.T, cat catalog.Catalog, opts ...session.Option) *session.Session {
	t.Helper()

	opts = append([]session.Option{session.WithLogger(zaptest.NewLogger(t))}, opts...)
	s, err := session.New(cat, opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

// Fill sends a change event for every value. Fields are applied in key order
// of the map, which is irrelevant to per-field validation.
func Fill(s *session.Session, values map[string]string) {
	for field, value := range values {
		s.FieldChanged(field, value)
	}
}

// MustLoadGoldenJSON decodes a JSON golden file into out.
func MustLoadGoldenJSON(t *testing.T, path string, out any) {
	t.Helper()

	if err := json.Unmarshal(MustReadGolden(t, path), out); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	return WriteMaybeGolden(t, path, append(payload, '\n'))
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
