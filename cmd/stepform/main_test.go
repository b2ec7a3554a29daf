package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/renderers/tui"
)

type scriptedDriver struct {
	inputs  []string
	selects []int
	infos   []string
}

func (d *scriptedDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := d.inputs[0]
	d.inputs = d.inputs[1:]
	return val, nil
}

func (d *scriptedDriver) Select(_ context.Context, _ tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := d.selects[0]
	d.selects = d.selects[1:]
	return val, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func contactDriver(postcodes ...string) *scriptedDriver {
	inputs := []string{"Ada", "Lovelace", "ada@example.com", "", "12", "Analytical", "Marylebone"}
	return &scriptedDriver{
		inputs:  append(inputs, postcodes...),
		selects: []int{0, 0, 0},
	}
}

func execute(t *testing.T, driver *scriptedDriver, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(dependencies{driver: driver})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_DefaultCatalogJSON(t *testing.T) {
	out, err := execute(t, contactDriver("3000"), "run")
	require.NoError(t, err)
	assert.Contains(t, out, `"street_type":"Street"`)
	assert.Contains(t, out, `"postcode":"3000"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestRun_OutputFromEnvironment(t *testing.T) {
	t.Setenv("STEPFORM_OUTPUT", "pretty")

	out, err := execute(t, contactDriver("3000"), "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Street Name: Analytical\n")
}

func TestRun_PostcodeRangeFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepform.yaml")
	require.NoError(t, os.WriteFile(path, []byte("postcode-min: 8000\npostcode-max: 8999\n"), 0o600))

	driver := contactDriver("3000", "8100")
	out, err := execute(t, driver, "run", "--config", path, "-o", "form")
	require.NoError(t, err)
	assert.Contains(t, out, "postcode=8100")
	assert.Contains(t, strings.Join(driver.infos, "\n"), "Invalid Postcode: Not a valid postcode")
}

func TestRun_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("STEPFORM_POSTCODE_MIN", "8000")
	t.Setenv("STEPFORM_POSTCODE_MAX", "8999")

	driver := contactDriver("3000")
	_, err := execute(t, driver, "run", "--postcode-min", "800", "--postcode-max", "7999")
	require.NoError(t, err)
	for _, info := range driver.infos {
		assert.NotContains(t, info, "Invalid Postcode")
	}
}

func TestRun_CustomCatalog(t *testing.T) {
	driver := &scriptedDriver{
		inputs:  []string{"news@example.com", "99", "2000"},
		selects: []int{0},
	}
	out, err := execute(t, driver, "run", "--catalog", filepath.Join("testdata", "newsletter.yaml"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"news@example.com","postcode":"2000"}`, out)
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := execute(t, contactDriver(), "run", "--postcode-min", "9000", "--postcode-max", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postcode-min")

	_, err = execute(t, contactDriver(), "run", "--output", "xml")
	require.Error(t, err)

	_, err = execute(t, contactDriver(), "run", "--catalog", filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
}

func TestServe_HandlerWiring(t *testing.T) {
	srv, err := newServer(Config{SessionTTL: 0}, zap.NewNop())
	require.NoError(t, err)
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Contact details")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Contains(t, rec.Body.String(), "stepform_sessions_started_total 1")
}
