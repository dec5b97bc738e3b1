package app

// Kind classifies service errors so the request boundary can map each
// class to a single HTTP status in one place instead of per call site.
type Kind int

const (
	KindAuth Kind = iota + 1
	KindMethodNotAllowed
	KindValidation
	KindNotFound
	KindNotCreated
	KindUpstream
	KindTransport
)

// Error is a tagged service error. The message is safe to show to the
// client; upstream/transport detail stays in the wrapped error, which is
// logged server-side only.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Errors by kind and message so wrapped sentinels compare
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Msg == e.Msg
}

var (
	// ErrUnauthorized indicates a missing or invalid session.
	ErrUnauthorized = &Error{Kind: KindAuth, Msg: "unauthorized"}
	// ErrStatNotFound indicates an update was requested for a row that
	// does not exist; the race backstop for stale clients.
	ErrStatNotFound = &Error{Kind: KindNotFound, Msg: "video stat does not exist"}
	// ErrStatNotCreated indicates the store reported no row after an insert.
	ErrStatNotCreated = &Error{Kind: KindNotCreated, Msg: "failed to create video stat"}
	// ErrMissingVideoID indicates the mandatory video_id field was absent.
	ErrMissingVideoID = &Error{Kind: KindValidation, Msg: "missing video_id"}
)

func upstreamErr(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}
