package catalog

import (
	_ "embed"
	"sync"
)

//go:embed contact.yaml
var contactYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog Catalog
	defaultErr     error
)

// Default returns the built-in two-step contact form catalog. Each call
// returns an independent copy.
func Default() Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(contactYAML, "contact.yaml")
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultCatalog.Clone()
}
