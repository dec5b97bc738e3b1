package adapthttp

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"discover/internal/domain"
	"discover/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

const (
	publicAssetsPrefix = "/static"
	loginPage          = "/login"
	loginEndpoint      = "/api/login"
	homePage           = "/"
)

type gateAction int

const (
	gatePass gateAction = iota
	gateRedirect
)

type gateDecision struct {
	action gateAction
	target string
}

// decide is the auth gate: a pure function of (path, authenticated) with
// no other inputs or side effects.
//
//   - public assets always pass
//   - unauthenticated requests pass only to the login surfaces; anything
//     else is redirected to the login page carrying the original path
//   - authenticated requests to the login surfaces bounce back home
func decide(path string, authenticated bool) gateDecision {
	if strings.Contains(path, publicAssetsPrefix) {
		return gateDecision{action: gatePass}
	}

	loginSurface := strings.HasPrefix(path, loginPage) || strings.HasPrefix(path, loginEndpoint)

	if !authenticated {
		if loginSurface {
			return gateDecision{action: gatePass}
		}
		q := url.Values{"from": {path}}
		return gateDecision{action: gateRedirect, target: loginPage + "?" + q.Encode()}
	}

	if loginSurface {
		return gateDecision{action: gateRedirect, target: homePage}
	}
	return gateDecision{action: gatePass}
}

// authGate resolves identity from the session cookie and applies the gate
// decision before any handler runs. Token verification failures degrade
// to "unauthenticated" and take the redirect path, never a 500.
func (s *Server) authGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.auth.Authenticate(session.Read(r))

		d := decide(r.URL.Path, ok)
		if d.action == gateRedirect {
			http.Redirect(w, r, d.target, http.StatusFound)
			return
		}

		if ok {
			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// sessionFrom returns the verified session placed in the context by the
// auth gate.
func sessionFrom(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(domain.Session)
	return sess, ok
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d", r.Method, r.URL.Path, rec.status)
	})
}
