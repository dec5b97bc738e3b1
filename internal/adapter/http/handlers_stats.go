package adapthttp

import (
	"net/http"

	"discover/internal/app"
	"discover/internal/domain"
)

// handleStats is the favourite-state endpoint. GET reads the current row,
// POST takes the insert path, PATCH the update path; the method encodes
// the client's claim about its prior state.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeAppError(w, app.ErrUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		stat, err := s.stats.Get(r.Context(), sess.UserID, r.URL.Query().Get("video_id"))
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"videoStat": stat})

	case http.MethodPost, http.MethodPatch:
		var body struct {
			VideoID    string            `json:"video_id"`
			Favourited domain.Favourited `json:"favourited"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeAppError(w, &app.Error{Kind: app.KindValidation, Msg: "invalid request", Err: err})
			return
		}

		var stat *domain.VideoStat
		var err error
		if r.Method == http.MethodPatch {
			stat, err = s.stats.Update(r.Context(), sess.UserID, body.VideoID, body.Favourited)
		} else {
			stat, err = s.stats.Insert(r.Context(), sess.UserID, body.VideoID, body.Favourited)
		}
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"videoStat": stat})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
