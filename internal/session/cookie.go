// Package session maps verified session tokens to and from the HTTP
// cookie transport.
package session

import (
	"net/http"
	"strings"
	"time"

	"discover/internal/token"
)

// TokenName is the session cookie name, shared by issuance and
// verification. Changing it invalidates all outstanding sessions.
const TokenName = "discover-videos-magic-token"

const maxAge = int(token.TTL / time.Second)

// Attach sets the session cookie on the response. secure should be true
// everywhere except local development.
func Attach(w http.ResponseWriter, tok string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// Clear overwrites the session cookie with an immediately-expired value.
// It does not need to know the previous token.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Read returns the session token from the request, or "" when absent. It
// falls back to parsing the raw Cookie header for entry points that do
// not arrive with a pre-parsed cookie jar.
func Read(r *http.Request) string {
	if c, err := r.Cookie(TokenName); err == nil && c.Value != "" {
		return c.Value
	}
	return readHeader(r.Header.Get("Cookie"))
}

func readHeader(header string) string {
	for _, part := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name != TokenName {
			continue
		}
		return strings.Trim(value, `"`)
	}
	return ""
}
