package domain

import "context"

// Favourited is the user's relationship to a video. Toggling back to
// "none" keeps the row; "none" is a state value, not a deletion.
type Favourited string

const (
	FavouritedLiked    Favourited = "liked"
	FavouritedDisliked Favourited = "disliked"
	FavouritedNone     Favourited = "none"
)

// Valid reports whether f is one of the three known states.
func (f Favourited) Valid() bool {
	return f == FavouritedLiked || f == FavouritedDisliked || f == FavouritedNone
}

// VideoStat is the single tracking row for a (user, video) pair. At most
// one exists per pair; that uniqueness is the central invariant every
// StatRepository implementation preserves.
type VideoStat struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	VideoID    string     `json:"video_id"`
	Favourited Favourited `json:"favourited"`
	Watched    bool       `json:"watched"`
}

// WatchedVideo is a watched-list entry returned by the user profile.
type WatchedVideo struct {
	ID         string     `json:"id"`
	ImgURL     string     `json:"imgUrl"`
	Favourited Favourited `json:"favourited"`
}

// StatRepository defines the port for video-stat persistence. GetStat and
// UpdateStat return (nil, nil) when no row matches; InsertStat returns
// (nil, nil) when the store created no row.
type StatRepository interface {
	GetStat(ctx context.Context, userID, videoID string) (*VideoStat, error)
	InsertStat(ctx context.Context, stat VideoStat) (*VideoStat, error)
	UpdateStat(ctx context.Context, userID, videoID string, favourited Favourited) (*VideoStat, error)
	ListWatched(ctx context.Context, userID string) ([]VideoStat, error)
}
