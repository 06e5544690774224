// Package handler is the serverless function serving the TeamHub API.
package handler

import (
	"net/http"

	"github.com/okian/teamhub/internal/serverless"
)

var entry = serverless.NewEntry(serverless.API)

// Handler is the entry point for Vercel.
func Handler(w http.ResponseWriter, r *http.Request) {
	entry.ServeHTTP(w, r)
}
