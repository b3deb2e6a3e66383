package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed dist/*
var distFS embed.FS

// GetFileSystem returns the embedded file system for the frontend dist directory
func GetFileSystem() (http.FileSystem, error) {
	subFS, err := fs.Sub(distFS, "dist")
	if err != nil {
		return nil, err
	}
	return http.FS(subFS), nil
}

// Page returns a single file from the embedded dist directory.
func Page(name string) ([]byte, error) {
	return distFS.ReadFile("dist/" + name)
}
