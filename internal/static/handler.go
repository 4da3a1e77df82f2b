package static

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"

	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/gorilla/mux"
)

// NewHandler serves the files under dir. Only GET and HEAD are allowed.
// Directories are served through their index.html and are never listed.
func NewHandler(dir string, logger logging.Logger) http.Handler {
	files := http.FileServer(http.FS(noListing{fs: os.DirFS(dir)}))

	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
	router.PathPrefix("/").Methods(http.MethodGet, http.MethodHead).Handler(files)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			logger.Info(r.Context(), "static request", "method", r.Method, "path", r.URL.Path)
		})
	})
	return router
}

// noListing hides directories that have no index.html.
type noListing struct {
	fs fs.FS
}

func (n noListing) Open(name string) (fs.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !fi.IsDir() {
		return f, nil
	}

	index, err := n.fs.Open(path.Join(name, "index.html"))
	if err != nil {
		f.Close()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fs.ErrNotExist
		}
		return nil, err
	}
	index.Close()
	return f, nil
}
