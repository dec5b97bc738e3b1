package app

import (
	"context"
	"fmt"

	"discover/internal/domain"
)

// UserService assembles the profile surface: the user row merged with the
// videos they have watched.
type UserService struct {
	users domain.UserRepository
	stats domain.StatRepository
}

// NewUserService creates a UserService backed by the given repositories.
func NewUserService(users domain.UserRepository, stats domain.StatRepository) *UserService {
	return &UserService{users: users, stats: stats}
}

// UserWithWatched is the merged profile payload.
type UserWithWatched struct {
	domain.User
	Watched []domain.WatchedVideo `json:"watched"`
}

// Profile returns the user identified by subjectID together with their
// watched list.
func (s *UserService) Profile(ctx context.Context, subjectID string) (*UserWithWatched, error) {
	user, err := s.users.GetByIssuer(ctx, subjectID)
	if err != nil {
		return nil, upstreamErr("look up user", err)
	}
	if user == nil {
		return nil, &Error{Kind: KindNotFound, Msg: "user not found"}
	}

	stats, err := s.stats.ListWatched(ctx, subjectID)
	if err != nil {
		return nil, upstreamErr("list watched videos", err)
	}

	watched := make([]domain.WatchedVideo, 0, len(stats))
	for _, st := range stats {
		watched = append(watched, domain.WatchedVideo{
			ID:         st.VideoID,
			ImgURL:     thumbnailURL(st.VideoID),
			Favourited: st.Favourited,
		})
	}

	return &UserWithWatched{User: *user, Watched: watched}, nil
}

// thumbnailURL derives the still image for a video without calling the
// metadata API.
func thumbnailURL(videoID string) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/maxresdefault.jpg", videoID)
}
