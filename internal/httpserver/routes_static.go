// internal/httpserver/routes_static.go
//
// Static assets used by the game client:
//   - GET /static/sounds/* → <dir>/sounds, served as audio/mpeg with byte ranges
//   - GET /static/images/* → <dir>/images, served as image/png
//
// Files come straight from disk; http.Dir rejects paths escaping the root.

package httpserver

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// mountStatic registers the /static routes rooted at dir.
func (s *Server) mountStatic(dir string) {
	s.r.Route("/static", func(r chi.Router) {
		r.Get("/sounds/*", staticFiles(filepath.Join(dir, "sounds"), "/static/sounds/", map[string]string{
			"Content-Type":  "audio/mpeg",
			"Accept-Ranges": "bytes",
			"Cache-Control": "public, max-age=0",
		}))
		r.Get("/images/*", staticFiles(filepath.Join(dir, "images"), "/static/images/", map[string]string{
			"Content-Type": "image/png",
		}))
	})
}

// staticFiles serves files under root with fixed headers.
// Directory listings are not exposed.
func staticFiles(root, prefix string, headers map[string]string) http.HandlerFunc {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		if name == "" || name[len(name)-1] == '/' {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		fs.ServeHTTP(w, r)
	}
}
