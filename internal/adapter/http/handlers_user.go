package adapthttp

import (
	"net/http"

	"discover/internal/app"
)

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeAppError(w, app.ErrUnauthorized)
		return
	}

	profile, err := s.users.Profile(r.Context(), sess.UserID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userWithWatched": profile})
}
