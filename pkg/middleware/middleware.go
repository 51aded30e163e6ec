// Package middleware holds the HTTP wrappers the API module stacks in front
// of its routes: CORS, request logging, body limits and OIDC bearer auth.
package middleware

import "net/http"

// Chain is an ordered middleware stack. The first entry sees the request
// first.
type Chain []func(http.Handler) http.Handler

// Then wraps h with every entry of the chain.
func (c Chain) Then(h http.Handler) http.Handler {
	for i := len(c) - 1; i >= 0; i-- {
		h = c[i](h)
	}
	return h
}
