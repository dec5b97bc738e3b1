package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"discover/internal/domain"
)

// GetStat fetches the tracking row for a (user, video) pair. Returns
// (nil, nil) when no row exists.
func (d *DB) GetStat(ctx context.Context, userID, videoID string) (*domain.VideoStat, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT id, user_id, video_id, favourited, watched FROM video_stats WHERE user_id=$1 AND video_id=$2;",
		userID, videoID)

	var s domain.VideoStat
	if err := row.Scan(&s.ID, &s.UserID, &s.VideoID, &s.Favourited, &s.Watched); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// InsertStat creates the tracking row. A unique-violation on the
// (user_id, video_id) index maps to (nil, nil): the row already exists
// and no new one was created.
func (d *DB) InsertStat(ctx context.Context, stat domain.VideoStat) (*domain.VideoStat, error) {
	s := stat
	s.ID = uuid.NewString()
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO video_stats(id, user_id, video_id, favourited, watched, created_at) VALUES($1, $2, $3, $4, $5, $6);",
		s.ID, s.UserID, s.VideoID, string(s.Favourited), s.Watched, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpdateStat rewrites favourited on the existing row and re-marks it
// watched. Returns (nil, nil) when no row matched.
func (d *DB) UpdateStat(ctx context.Context, userID, videoID string, favourited domain.Favourited) (*domain.VideoStat, error) {
	row := d.sql.QueryRowContext(ctx,
		"UPDATE video_stats SET favourited=$3, watched=TRUE WHERE user_id=$1 AND video_id=$2 RETURNING id, user_id, video_id, favourited, watched;",
		userID, videoID, string(favourited))

	var s domain.VideoStat
	if err := row.Scan(&s.ID, &s.UserID, &s.VideoID, &s.Favourited, &s.Watched); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListWatched returns every watched row for the user.
func (d *DB) ListWatched(ctx context.Context, userID string) ([]domain.VideoStat, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, user_id, video_id, favourited, watched FROM video_stats WHERE user_id=$1 AND watched=TRUE ORDER BY created_at;",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.VideoStat, 0)
	for rows.Next() {
		var s domain.VideoStat
		if err := rows.Scan(&s.ID, &s.UserID, &s.VideoID, &s.Favourited, &s.Watched); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
