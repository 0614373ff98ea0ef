package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var staticFS embed.FS

// GetStaticFS returns the embedded frontend filesystem.
// Returns nil if the static directory is empty.
func GetStaticFS() fs.FS {
	entries, err := staticFS.ReadDir("static")
	if err != nil || len(entries) == 0 {
		return nil
	}

	subFS, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil
	}

	return subFS
}
