// Package site serves the embedded operator dashboard page.
package site

import (
	"context"
	"io/fs"
	"net/http"
)

const assetCacheControl = "public, max-age=3600"

// Register attaches the dashboard page and its assets to mux.
//
//	GET /           -> index.html
//	GET /static/... -> assets
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	root := NewRootHandler(assets())
	mux.HandleFunc("GET /{$}", root.HandleRoot)
	mux.Handle("GET /static/", http.StripPrefix("/static/", root.AssetHandler()))
}

// RootHandler serves the dashboard page and its assets from an fs.FS.
type RootHandler struct {
	files fs.FS
}

// NewRootHandler creates a handler over files, which must hold index.html.
func NewRootHandler(files fs.FS) *RootHandler {
	return &RootHandler{files: files}
}

// HandleRoot handles GET / by serving the dashboard page. The page is never
// cached so a redeploy shows up on the next load.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFileFS(w, r, h.files, "index.html")
}

// AssetHandler serves the stylesheet and other assets with a short cache
// lifetime. Directory listings are refused.
func (h *RootHandler) AssetHandler() http.Handler {
	files := http.FileServerFS(h.files)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", assetCacheControl)
		files.ServeHTTP(w, r)
	})
}
