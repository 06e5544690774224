// Package site holds the embedded index page and its static assets.
package site

import (
	"context"
	"net/http"
)

// AssetsPrefix is where Register mounts the static assets.
const AssetsPrefix = "/assets/"

// Register attaches the static asset routes to mux. The index document itself
// is served by the API dispatcher.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(AssetsPrefix, http.StripPrefix(AssetsPrefix, http.FileServer(AssetsFS())))
}
