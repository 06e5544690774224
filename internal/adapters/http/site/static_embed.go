package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/index.html static/assets/*
var staticFS embed.FS

// IndexHTML returns the embedded index document.
func IndexHTML() string {
	b, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return ""
	}
	return string(b)
}

// AssetsFS returns an http.FileSystem rooted at static/assets.
func AssetsFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static/assets")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
