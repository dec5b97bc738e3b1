package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"discover/internal/app"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError is the single place error kinds become HTTP statuses. The
// short message goes to the client; wrapped detail is logged server-side
// only.
func writeAppError(w http.ResponseWriter, err error) {
	var appErr *app.Error
	if !errors.As(err, &appErr) {
		log.Printf("internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if appErr.Err != nil {
		log.Printf("%s: %v", appErr.Msg, appErr.Err)
	}
	http.Error(w, appErr.Msg, statusFor(appErr.Kind))
}

func statusFor(kind app.Kind) int {
	switch kind {
	case app.KindAuth:
		return http.StatusUnauthorized
	case app.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case app.KindValidation:
		return http.StatusBadRequest
	case app.KindNotFound:
		return http.StatusNotFound
	default:
		// NotCreated, Upstream, Transport and anything unclassified.
		return http.StatusInternalServerError
	}
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// spaFromDisk serves the browse pages and static assets from webDir,
// falling back to index.html for client-routed paths like /video/<id>.
func spaFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")
	loginPath := path.Join(dir, "login.html")
	myListPath := path.Join(dir, "my-list.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean(r.URL.Path)
		switch reqPath {
		case "/":
			http.ServeFile(w, r, indexPath)
			return
		case "/login":
			http.ServeFile(w, r, loginPath)
			return
		case "/browse/my-list":
			http.ServeFile(w, r, myListPath)
			return
		}

		staticPath := path.Join(dir, reqPath)
		if _, err := os.Stat(staticPath); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, indexPath)
	})
}
