// Package swagger serves the OpenAPI document of the HTTP API and a ReDoc page for it.
package swagger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ErrSpec is returned when the embedded document cannot be converted.
var ErrSpec = errors.New("openapi document invalid")

// Docs serves one OpenAPI document in YAML and JSON.
type Docs struct {
	yaml     []byte
	json     []byte
	yamlETag string
	jsonETag string
}

// NewDocs converts spec to JSON once and fingerprints both encodings.
func NewDocs(spec []byte) (*Docs, error) {
	var doc any
	if err := yaml.Unmarshal(spec, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpec, err)
	}
	js, err := json.Marshal(stringKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpec, err)
	}
	return &Docs{yaml: spec, json: js, yamlETag: etag(spec), jsonETag: etag(js)}, nil
}

// Register attaches the API docs and the OpenAPI routes to mux.
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> embedded document
//	GET /openapi.json  -> the same document as JSON
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	docs, err := NewDocs(specYAML)
	if err != nil {
		panic(err)
	}
	mux.HandleFunc("GET /api-docs", docs.HandleIndex)
	mux.HandleFunc("GET /openapi.yaml", docs.HandleYAML)
	mux.HandleFunc("GET /openapi.json", docs.HandleJSON)
}

// HandleIndex serves the ReDoc page.
func (d *Docs) HandleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

// HandleYAML serves the document as YAML.
func (d *Docs) HandleYAML(w http.ResponseWriter, r *http.Request) {
	serveCached(w, r, "application/yaml; charset=utf-8", d.yamlETag, d.yaml)
}

// HandleJSON serves the document as JSON.
func (d *Docs) HandleJSON(w http.ResponseWriter, r *http.Request) {
	serveCached(w, r, "application/json", d.jsonETag, d.json)
}

func serveCached(w http.ResponseWriter, r *http.Request, contentType, tag string, body []byte) {
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}

func etag(b []byte) string {
	sum := sha256.Sum256(b)
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}

// stringKeys rewrites maps with non-string keys, such as numeric response
// codes, into JSON-encodable maps.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = stringKeys(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = stringKeys(e)
		}
		return t
	default:
		return v
	}
}

// Minimal HTML that loads ReDoc and points it at /openapi.yaml.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>SIMONEV API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
