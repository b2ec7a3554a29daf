package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Parse decodes a catalog from JSON or YAML and validates it. source is used
// in error messages only.
func Parse(data []byte, source string) (Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Catalog{}, fmt.Errorf("catalog: file %s is empty", source)
	}

	var cat Catalog
	if looksLikeJSON(data) {
		if err := json.Unmarshal(data, &cat); err != nil {
			// flow-style YAML also starts with a brace
			cat = Catalog{}
			if yerr := yaml.Unmarshal(data, &cat); yerr != nil {
				return Catalog{}, fmt.Errorf("catalog: parse %s: %w", source, err)
			}
		}
	} else if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("catalog: parse %s: %w", source, err)
	}

	if err := Validate(cat); err != nil {
		return Catalog{}, fmt.Errorf("catalog: %s: %w", source, err)
	}
	return cat, nil
}

// LoadFS reads and parses a catalog file from fsys.
func LoadFS(fsys fs.FS, path string) (Catalog, error) {
	if fsys == nil {
		return Catalog{}, errors.New("catalog: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFile reads and parses a catalog file from disk.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Validate checks structural constraints: at least one step, named fields,
// known rules, unique field names per step and a sane postcode range.
func Validate(cat Catalog) error {
	if err := structValidator().Struct(cat); err != nil {
		return describeValidationError(err)
	}

	for i, step := range cat.Steps {
		seen := make(map[string]struct{}, len(step.Fields))
		for _, field := range step.Fields {
			name := strings.TrimSpace(field.Name)
			if name != field.Name {
				return fmt.Errorf("step %d field %q has surrounding whitespace", i, field.Name)
			}
			if _, exists := seen[name]; exists {
				return fmt.Errorf("step %d declares duplicate field %q", i, name)
			}
			seen[name] = struct{}{}
			for _, rule := range field.Rules {
				if !rule.Valid() {
					return fmt.Errorf("step %d field %q: unknown rule %q", i, name, rule)
				}
			}
		}
	}
	return nil
}

func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid catalog: %s", strings.Join(msgs, "; "))
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
