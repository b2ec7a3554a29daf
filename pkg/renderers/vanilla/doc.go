// Package vanilla renders a stepform session as plain server-side HTML.
//
// The active step becomes a form that posts to <action>/next and
// <action>/back; field errors are shown inline, joined with ". ", and the
// input is marked is-danger. Once the session is submitted the summary page
// lists every value with its label, escaped as entered. The configurable
// heading is sanitised with bluemonday.
package vanilla
