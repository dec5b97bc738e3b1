package adapthttp

import (
	"net/http"

	"discover/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth   *app.AuthService
	stats  *app.StatsService
	users  *app.UserService
	webDir string

	// secureCookies is off only for local development.
	secureCookies bool
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, stats *app.StatsService, users *app.UserService, webDir string, secureCookies bool) *Server {
	return &Server{auth: auth, stats: stats, users: users, webDir: webDir, secureCookies: secureCookies}
}

// Handler returns the root http.Handler for the application. The auth
// gate wraps everything: it is the sole authorization boundary and runs
// on every request, API routes included.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/login", s.handleLogin)
	api.HandleFunc("/logout", s.handleLogout)
	api.HandleFunc("/stats", s.handleStats)
	api.HandleFunc("/user", s.handleUser)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(s.authGate(withNoCache(root)))
}
