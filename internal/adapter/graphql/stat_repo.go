package graphql

import (
	"context"

	"discover/internal/domain"
)

const findStatQuery = `
query FindStat($user_id: String!, $video_id: String!) {
  stats(where: {user_id: {_eq: $user_id}, video_id: {_eq: $video_id}}) {
    id
    user_id
    video_id
    favourited
    watched
  }
}`

const insertStatMutation = `
mutation InsertStat($favourited: String!, $user_id: String!, $video_id: String!) {
  insert_stats(objects: {favourited: $favourited, user_id: $user_id, video_id: $video_id, watched: true}) {
    returning {
      id
      user_id
      video_id
      favourited
      watched
    }
  }
}`

const updateStatMutation = `
mutation UpdateStat($user_id: String!, $video_id: String!, $favourited: String!) {
  update_stats(where: {user_id: {_eq: $user_id}, video_id: {_eq: $video_id}}, _set: {favourited: $favourited, watched: true}) {
    returning {
      id
      user_id
      video_id
      favourited
      watched
    }
  }
}`

const watchedQuery = `
query WatchedVideos($user_id: String!) {
  stats(where: {user_id: {_eq: $user_id}, watched: {_eq: true}}) {
    id
    user_id
    video_id
    favourited
    watched
  }
}`

type statRows struct {
	Stats []domain.VideoStat `json:"stats"`
}

type mutationRows struct {
	Returning []domain.VideoStat `json:"returning"`
}

// GetStat fetches the tracking row for a (user, video) pair. Returns
// (nil, nil) when no row exists.
func (g *Gateway) GetStat(ctx context.Context, userID, videoID string) (*domain.VideoStat, error) {
	var data statRows
	vars := map[string]any{"user_id": userID, "video_id": videoID}
	if err := g.execute(ctx, "FindStat", findStatQuery, vars, &data); err != nil {
		return nil, err
	}
	if len(data.Stats) == 0 {
		return nil, nil
	}
	return &data.Stats[0], nil
}

// InsertStat creates the tracking row. Returns (nil, nil) when the
// gateway reports no row created.
func (g *Gateway) InsertStat(ctx context.Context, stat domain.VideoStat) (*domain.VideoStat, error) {
	var data struct {
		Insert mutationRows `json:"insert_stats"`
	}
	vars := map[string]any{
		"favourited": string(stat.Favourited),
		"user_id":    stat.UserID,
		"video_id":   stat.VideoID,
	}
	if err := g.execute(ctx, "InsertStat", insertStatMutation, vars, &data); err != nil {
		return nil, err
	}
	if len(data.Insert.Returning) == 0 {
		return nil, nil
	}
	return &data.Insert.Returning[0], nil
}

// UpdateStat rewrites favourited on the existing row and re-marks it
// watched. Returns (nil, nil) when no row matched.
func (g *Gateway) UpdateStat(ctx context.Context, userID, videoID string, favourited domain.Favourited) (*domain.VideoStat, error) {
	var data struct {
		Update mutationRows `json:"update_stats"`
	}
	vars := map[string]any{
		"user_id":    userID,
		"video_id":   videoID,
		"favourited": string(favourited),
	}
	if err := g.execute(ctx, "UpdateStat", updateStatMutation, vars, &data); err != nil {
		return nil, err
	}
	if len(data.Update.Returning) == 0 {
		return nil, nil
	}
	return &data.Update.Returning[0], nil
}

// ListWatched returns every watched row for the user.
func (g *Gateway) ListWatched(ctx context.Context, userID string) ([]domain.VideoStat, error) {
	var data statRows
	vars := map[string]any{"user_id": userID}
	if err := g.execute(ctx, "WatchedVideos", watchedQuery, vars, &data); err != nil {
		return nil, err
	}
	return data.Stats, nil
}
