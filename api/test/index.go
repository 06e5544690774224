// Package handler is the serverless probe deployment answering /api/test.
package handler

import (
	"net/http"

	"github.com/okian/teamhub/internal/serverless"
)

var entry = serverless.NewEntry(serverless.Probe)

// Handler is the entry point for Vercel.
func Handler(w http.ResponseWriter, r *http.Request) {
	entry.ServeHTTP(w, r)
}
