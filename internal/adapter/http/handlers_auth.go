// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log"
	"net/http"
	"strings"

	"discover/internal/session"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authz := r.Header.Get("Authorization")
	proof, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || proof == "" {
		http.Error(w, "missing authorization header", http.StatusUnauthorized)
		return
	}

	token, err := s.auth.Login(r.Context(), proof)
	if err != nil {
		writeAppError(w, err)
		return
	}

	session.Attach(w, token, s.secureCookies)
	writeJSON(w, http.StatusOK, map[string]any{"done": true})
}

// handleLogout clears the session and terminates the upstream identity
// session. It always redirects home: logout never fails visibly.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if sess, ok := sessionFrom(r.Context()); ok {
		if err := s.auth.Logout(r.Context(), sess.UserID); err != nil {
			log.Printf("logout: upstream termination: %v", err)
		}
	}

	session.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
