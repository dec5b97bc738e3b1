package domain

// Session is the per-request identity derived from a verified cookie
// token. It is never persisted and is discarded at the end of the request.
// The raw token is sensitive; it is carried for upstream calls only and
// must never be logged.
type Session struct {
	UserID string
	Token  string
}
