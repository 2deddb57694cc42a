package site

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// assets is the embedded static directory with the "static/" prefix removed.
func assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return sub
}
