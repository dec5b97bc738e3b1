package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	adapthttp "discover/internal/adapter/http"
	"discover/internal/adapter/memory"
	"discover/internal/app"
	"discover/internal/domain"
	"discover/internal/session"
	"discover/internal/token"
)

// ---------------------------------------------------------------------------
// Mock credential verifier (function-fields pattern)
// ---------------------------------------------------------------------------

type mockVerifier struct {
	verifyFn    func(ctx context.Context, proof string) (*domain.Identity, error)
	terminateFn func(ctx context.Context, issuer string) error
}

func (m *mockVerifier) Verify(ctx context.Context, proof string) (*domain.Identity, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, proof)
	}
	return &domain.Identity{Issuer: "did:test:abc", Email: "a@b.c"}, nil
}

func (m *mockVerifier) Terminate(ctx context.Context, issuer string) error {
	if m.terminateFn != nil {
		return m.terminateFn(ctx, issuer)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	handler http.Handler
	codec   *token.Codec
	db      *memory.DB
}

func newFixture(t *testing.T, verifier domain.CredentialVerifier) *fixture {
	t.Helper()

	codec, err := token.New("test-secret")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	db := memory.New()

	webDir := t.TempDir()
	for _, name := range []string{"index.html", "login.html", "my-list.html"} {
		if err := os.WriteFile(filepath.Join(webDir, name), []byte("<html>"+name+"</html>"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	authSvc := app.NewAuthService(verifier, db, codec)
	statsSvc := app.NewStatsService(db)
	userSvc := app.NewUserService(db, db)

	srv := adapthttp.New(authSvc, statsSvc, userSvc, webDir, false)
	return &fixture{handler: srv.Handler(), codec: codec, db: db}
}

func (f *fixture) sessionCookie(t *testing.T, subject string) *http.Cookie {
	t.Helper()
	tok, err := f.codec.Issue(subject)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return &http.Cookie{Name: session.TokenName, Value: tok}
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return &buf
}

// ---------------------------------------------------------------------------
// Auth gate behaviour through the full stack
// ---------------------------------------------------------------------------

func TestUnauthenticatedRequestRedirectsToLogin(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/browse/my-list", nil)
	rec := f.do(t, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?from=%2Fbrowse%2Fmy-list" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestAuthenticatedLoginPageRedirectsHome(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(f.sessionCookie(t, "did:test:abc"))
	rec := f.do(t, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestExpiredSessionDegradesToRedirect(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	// An unverifiable cookie is treated as no session at all.
	req := httptest.NewRequest(http.MethodGet, "/browse/my-list", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenName, Value: "tampered-garbage"})
	rec := f.do(t, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
}

func TestStaticAssetsBypassTheGate(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/static/app.css", nil)
	rec := f.do(t, req)

	// No redirect: the SPA handler answers (404 handling is its business).
	if rec.Code == http.StatusFound {
		t.Fatalf("static asset must not redirect, got %d -> %s", rec.Code, rec.Header().Get("Location"))
	}
}

// ---------------------------------------------------------------------------
// Login / logout
// ---------------------------------------------------------------------------

func TestLogin_SetsCookieAndCreatesUser(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.Header.Set("Authorization", "Bearer proof-token")
	rec := f.do(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp["done"] {
		t.Fatalf("expected {done:true}, got %s", rec.Body.String())
	}

	var sessCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.TokenName {
			sessCookie = c
		}
	}
	if sessCookie == nil || sessCookie.Value == "" {
		t.Fatal("expected session cookie to be set")
	}
	if subject, err := f.codec.Verify(sessCookie.Value); err != nil || subject != "did:test:abc" {
		t.Fatalf("cookie does not verify: %q %v", subject, err)
	}

	user, err := f.db.GetByIssuer(context.Background(), "did:test:abc")
	if err != nil || user == nil {
		t.Fatalf("expected user row, got %+v (%v)", user, err)
	}
}

func TestLogin_MissingBearer(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	rec := f.do(t, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_RejectedProof(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(context.Context, string) (*domain.Identity, error) {
			return nil, errors.New("proof rejected")
		},
	}
	f := newFixture(t, verifier)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.Header.Set("Authorization", "Bearer bad-proof")
	rec := f.do(t, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_MethodNotAllowed(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	rec := f.do(t, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestLogout_AlwaysRedirectsHome(t *testing.T) {
	terminated := ""
	verifier := &mockVerifier{
		terminateFn: func(_ context.Context, issuer string) error {
			terminated = issuer
			return errors.New("upstream exploded")
		},
	}
	f := newFixture(t, verifier)

	req := httptest.NewRequest(http.MethodGet, "/api/logout", nil)
	req.AddCookie(f.sessionCookie(t, "did:test:abc"))
	rec := f.do(t, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 despite upstream error, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
	if terminated != "did:test:abc" {
		t.Fatalf("expected upstream termination for did:test:abc, got %q", terminated)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.TokenName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be cleared")
	}
}

// ---------------------------------------------------------------------------
// Stats endpoint
// ---------------------------------------------------------------------------

type statResponse struct {
	VideoStat *domain.VideoStat `json:"videoStat"`
}

func TestStats_FirstToggleInsertsWatchedRow(t *testing.T) {
	f := newFixture(t, &mockVerifier{})
	cookie := f.sessionCookie(t, "did:test:abc")

	req := httptest.NewRequest(http.MethodPost, "/api/stats",
		jsonBody(t, map[string]any{"video_id": "R123", "favourited": "liked"}))
	req.AddCookie(cookie)
	rec := f.do(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp statResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.VideoStat == nil {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if resp.VideoStat.Favourited != domain.FavouritedLiked || !resp.VideoStat.Watched {
		t.Fatalf("unexpected stat %+v", resp.VideoStat)
	}

	// GET reflects the stored row.
	req = httptest.NewRequest(http.MethodGet, "/api/stats?video_id=R123", nil)
	req.AddCookie(cookie)
	rec = f.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp = statResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.VideoStat == nil {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if resp.VideoStat.Favourited != domain.FavouritedLiked {
		t.Fatalf("unexpected stat %+v", resp.VideoStat)
	}
}

func TestStats_UpdateExistingRow(t *testing.T) {
	f := newFixture(t, &mockVerifier{})
	cookie := f.sessionCookie(t, "did:test:abc")

	req := httptest.NewRequest(http.MethodPost, "/api/stats",
		jsonBody(t, map[string]any{"video_id": "R123", "favourited": "liked"}))
	req.AddCookie(cookie)
	if rec := f.do(t, req); rec.Code != http.StatusOK {
		t.Fatalf("seed insert failed: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/stats",
		jsonBody(t, map[string]any{"video_id": "R123", "favourited": "disliked"}))
	req.AddCookie(cookie)
	rec := f.do(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp statResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.VideoStat == nil || resp.VideoStat.Favourited != domain.FavouritedDisliked {
		t.Fatalf("unexpected stat %+v", resp.VideoStat)
	}
	if n := f.db.StatCount("did:test:abc", "R123"); n != 1 {
		t.Fatalf("expected exactly 1 row, got %d", n)
	}
}

func TestStats_UpdateWithoutRowIs404(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	req := httptest.NewRequest(http.MethodPatch, "/api/stats",
		jsonBody(t, map[string]any{"video_id": "R123", "favourited": "disliked"}))
	req.AddCookie(f.sessionCookie(t, "did:test:abc"))
	rec := f.do(t, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStats_GetAbsentRowIsNull(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/stats?video_id=R999", nil)
	req.AddCookie(f.sessionCookie(t, "did:test:abc"))
	rec := f.do(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp statResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.VideoStat != nil {
		t.Fatalf("expected null videoStat, got %+v", resp.VideoStat)
	}
}

func TestStats_MissingVideoID(t *testing.T) {
	f := newFixture(t, &mockVerifier{})
	cookie := f.sessionCookie(t, "did:test:abc")

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.AddCookie(cookie)
	if rec := f.do(t, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("GET: expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/stats",
		jsonBody(t, map[string]any{"favourited": "liked"}))
	req.AddCookie(cookie)
	if rec := f.do(t, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("POST: expected 400, got %d", rec.Code)
	}
}

func TestStats_MethodNotAllowed(t *testing.T) {
	f := newFixture(t, &mockVerifier{})

	req := httptest.NewRequest(http.MethodDelete, "/api/stats", nil)
	req.AddCookie(f.sessionCookie(t, "did:test:abc"))
	if rec := f.do(t, req); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// User endpoint
// ---------------------------------------------------------------------------

func TestUser_ProfileWithWatchedList(t *testing.T) {
	f := newFixture(t, &mockVerifier{})
	cookie := f.sessionCookie(t, "did:test:abc")

	// Login first so the user row exists.
	login := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	login.Header.Set("Authorization", "Bearer proof")
	if rec := f.do(t, login); rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d", rec.Code)
	}

	seed := httptest.NewRequest(http.MethodPost, "/api/stats",
		jsonBody(t, map[string]any{"video_id": "R123", "favourited": "liked"}))
	seed.AddCookie(cookie)
	if rec := f.do(t, seed); rec.Code != http.StatusOK {
		t.Fatalf("seed failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(cookie)
	rec := f.do(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		UserWithWatched struct {
			domain.User
			Watched []domain.WatchedVideo `json:"watched"`
		} `json:"userWithWatched"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserWithWatched.Issuer != "did:test:abc" {
		t.Fatalf("unexpected user %+v", resp.UserWithWatched.User)
	}
	if len(resp.UserWithWatched.Watched) != 1 || resp.UserWithWatched.Watched[0].ID != "R123" {
		t.Fatalf("unexpected watched list %+v", resp.UserWithWatched.Watched)
	}
}
