package api

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// spaFileSystem serves the frontend build and answers unknown client-side
// routes with index.html. Misses under /api/ and on asset paths with an
// extension stay 404s.
type spaFileSystem struct {
	root http.FileSystem
}

func (s *spaFileSystem) Open(name string) (http.File, error) {
	f, err := s.root.Open(name)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return f, err
	}
	clean := path.Clean("/" + name)
	if strings.HasPrefix(clean, "/api/") || path.Ext(clean) != "" {
		return nil, err
	}
	return s.root.Open("/index.html")
}
