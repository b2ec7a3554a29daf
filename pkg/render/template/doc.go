// Package template defines the template rendering seam used by the HTML
// adapter. The pongo subpackage provides the default pongo2-backed engine.
package template
