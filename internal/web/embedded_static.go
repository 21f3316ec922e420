package web

import (
	"embed"
	"io/fs"
)

// EmbeddedStaticFS holds the built-in asset root served when no static
// directory is configured.
//
//go:embed static/*
var EmbeddedStaticFS embed.FS

// embeddedAssets returns the embedded asset root with the static/ prefix stripped
func embeddedAssets() (fs.FS, error) {
	return fs.Sub(EmbeddedStaticFS, "static")
}

// ListEmbeddedFiles returns a list of all embedded static files for debugging
func ListEmbeddedFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(EmbeddedStaticFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
