// Package web hosts stepform sessions over HTTP with gin.
//
// Each visitor gets a session keyed by the stepform_session cookie. GET /
// renders the active step, POST /next and POST /back apply the posted values
// and navigate, POST /reset starts over. Sessions expire after a period of
// inactivity.
package web
