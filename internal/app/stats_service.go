package app

import (
	"context"

	"discover/internal/domain"
)

// StatsService reconciles favourite state against the relationship store.
// Insert-vs-update routing is chosen by the caller from the client's claim
// about its prior state ("none" routes to Insert, anything else to
// Update); the value written is always the requested new state. No lock or
// transaction is taken: each operation's own existence check is the sole
// race guard, so near-simultaneous toggles on the same pair can surface
// ErrStatNotFound or ErrStatNotCreated. Those are recoverable; the client
// rolls back and the user tries again.
type StatsService struct {
	stats domain.StatRepository
}

// NewStatsService creates a StatsService backed by the given repository.
func NewStatsService(stats domain.StatRepository) *StatsService {
	return &StatsService{stats: stats}
}

// Get returns the tracking row for (user, video), or nil when none exists.
func (s *StatsService) Get(ctx context.Context, userID, videoID string) (*domain.VideoStat, error) {
	if videoID == "" {
		return nil, ErrMissingVideoID
	}
	stat, err := s.stats.GetStat(ctx, userID, videoID)
	if err != nil {
		return nil, upstreamErr("get video stat", err)
	}
	return stat, nil
}

// Insert creates the single tracking row for (user, video) with the
// requested state and watched set. The row must not exist yet; the store's
// uniqueness check is what keeps a racing duplicate insert from producing
// a second row.
func (s *StatsService) Insert(ctx context.Context, userID, videoID string, favourited domain.Favourited) (*domain.VideoStat, error) {
	if videoID == "" {
		return nil, ErrMissingVideoID
	}
	if !favourited.Valid() {
		return nil, &Error{Kind: KindValidation, Msg: "invalid favourited value"}
	}

	created, err := s.stats.InsertStat(ctx, domain.VideoStat{
		UserID:     userID,
		VideoID:    videoID,
		Favourited: favourited,
		Watched:    true,
	})
	if err != nil {
		return nil, upstreamErr("insert video stat", err)
	}
	if created == nil {
		return nil, ErrStatNotCreated
	}
	return created, nil
}

// Update mutates the existing row in place to the requested state, marking
// it watched. ErrStatNotFound guards against a stale client assuming a row
// it does not have.
func (s *StatsService) Update(ctx context.Context, userID, videoID string, favourited domain.Favourited) (*domain.VideoStat, error) {
	if videoID == "" {
		return nil, ErrMissingVideoID
	}
	if !favourited.Valid() {
		return nil, &Error{Kind: KindValidation, Msg: "invalid favourited value"}
	}

	existing, err := s.stats.GetStat(ctx, userID, videoID)
	if err != nil {
		return nil, upstreamErr("get video stat", err)
	}
	if existing == nil {
		return nil, ErrStatNotFound
	}

	updated, err := s.stats.UpdateStat(ctx, userID, videoID, favourited)
	if err != nil {
		return nil, upstreamErr("update video stat", err)
	}
	if updated == nil {
		// The row vanished between the check and the write.
		return nil, &Error{Kind: KindUpstream, Msg: "failed to update video stat"}
	}
	return updated, nil
}
