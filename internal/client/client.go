// Package client is a small consumer SDK for the discover API. It keeps
// a local view of favourite state per video and reconciles toggles with
// the server optimistically: the local view changes first, and rolls
// back if the server does not confirm.
package client

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"discover/internal/domain"
)

// Client talks to one discover server on behalf of one user. The
// session cookie set by Login lives in the client's cookie jar.
type Client struct {
	http *resty.Client

	mu    sync.Mutex
	state map[string]domain.Favourited
}

// New returns a Client for the server at baseURL.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetCookieJar(jar).
		SetTimeout(15 * time.Second)
	return &Client{
		http:  httpClient,
		state: make(map[string]domain.Favourited),
	}
}

// Login exchanges a credential proof token for a session cookie.
func (c *Client) Login(ctx context.Context, proofToken string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(proofToken).
		Post("/api/login")
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("login: server returned %s", resp.Status())
	}
	return nil
}

// Logout drops the server session. The local favourite view is kept;
// it simply stops being authoritative.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/api/logout")
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("logout: server returned %s", resp.Status())
	}
	return nil
}

type statEnvelope struct {
	VideoStat *domain.VideoStat `json:"videoStat"`
}

// Refresh replaces the local view for videoID with the server's record.
// A missing record reads as "none".
func (c *Client) Refresh(ctx context.Context, videoID string) error {
	var envelope statEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("video_id", videoID).
		SetResult(&envelope).
		Get("/api/stats")
	if err != nil {
		return fmt.Errorf("fetch stat: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetch stat: server returned %s", resp.Status())
	}

	current := domain.FavouritedNone
	if envelope.VideoStat != nil {
		current = envelope.VideoStat.Favourited
	}

	c.mu.Lock()
	c.state[videoID] = current
	c.mu.Unlock()
	return nil
}

// Favourited returns the local view of the video's favourite state.
// Videos never seen read as "none".
func (c *Client) Favourited(videoID string) domain.Favourited {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.state[videoID]; ok {
		return s
	}
	return domain.FavouritedNone
}
