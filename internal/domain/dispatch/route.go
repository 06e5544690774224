package dispatch

import "context"

// HandlerFunc produces the response for a matched request. A returned error is
// converted into a 500 by the dispatcher.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

// Matcher reports whether a route applies to req.
type Matcher func(req Request) bool

// Route is one ordered rule of a dispatcher.
type Route struct {
	// Name labels logs, metrics and spans.
	Name   string
	Match  Matcher
	Handle HandlerFunc
}

// PathIs matches when the request path equals one of paths.
func PathIs(paths ...string) Matcher {
	return func(req Request) bool {
		for _, p := range paths {
			if req.Path == p {
				return true
			}
		}
		return false
	}
}

// MethodIs matches the request method exactly.
func MethodIs(method string) Matcher {
	return func(req Request) bool {
		return req.Method == method
	}
}

// All matches when every matcher does.
func All(matchers ...Matcher) Matcher {
	return func(req Request) bool {
		for _, m := range matchers {
			if !m(req) {
				return false
			}
		}
		return true
	}
}
