// Package memory implements in-memory repositories for development and
// testing.
package memory

import (
	"context"
	"strconv"
	"sync"

	"discover/internal/domain"
)

// DB implements the domain repositories in process memory.
type DB struct {
	mu    sync.Mutex
	users []domain.User
	stats []domain.VideoStat

	idCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.StatRepository = (*DB)(nil)

func (db *DB) nextID(prefix string) string {
	db.idCounter++
	return prefix + strconv.FormatInt(db.idCounter, 10)
}

// --- UserRepository ---

// GetByIssuer returns the user with the given issuer, or nil.
func (db *DB) GetByIssuer(ctx context.Context, issuer string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.users {
		if db.users[i].Issuer == issuer {
			u := db.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Create adds a new user for the identity.
func (db *DB) Create(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u := domain.User{
		ID:            db.nextID("user-"),
		Email:         identity.Email,
		Issuer:        identity.Issuer,
		PublicAddress: identity.PublicAddress,
	}
	db.users = append(db.users, u)
	return &u, nil
}

// --- StatRepository ---

// GetStat returns the tracking row for (user, video), or nil.
func (db *DB) GetStat(ctx context.Context, userID, videoID string) (*domain.VideoStat, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if i := db.statIndex(userID, videoID); i >= 0 {
		st := db.stats[i]
		return &st, nil
	}
	return nil, nil
}

// InsertStat adds the row for (user, video). A pair that already has a row
// gets no second one: the insert reports no row created and the caller
// surfaces that as a failure.
func (db *DB) InsertStat(ctx context.Context, stat domain.VideoStat) (*domain.VideoStat, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.statIndex(stat.UserID, stat.VideoID) >= 0 {
		return nil, nil
	}

	stat.ID = db.nextID("stat-")
	db.stats = append(db.stats, stat)
	return &stat, nil
}

// UpdateStat mutates the existing row in place, or reports no row matched.
func (db *DB) UpdateStat(ctx context.Context, userID, videoID string, favourited domain.Favourited) (*domain.VideoStat, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.statIndex(userID, videoID)
	if i < 0 {
		return nil, nil
	}

	db.stats[i].Favourited = favourited
	db.stats[i].Watched = true
	st := db.stats[i]
	return &st, nil
}

// ListWatched returns all watched rows for the user.
func (db *DB) ListWatched(ctx context.Context, userID string) ([]domain.VideoStat, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.VideoStat, 0)
	for _, st := range db.stats {
		if st.UserID == userID && st.Watched {
			out = append(out, st)
		}
	}
	return out, nil
}

// statIndex must be called with the lock held.
func (db *DB) statIndex(userID, videoID string) int {
	for i := range db.stats {
		if db.stats[i].UserID == userID && db.stats[i].VideoID == videoID {
			return i
		}
	}
	return -1
}

// StatCount reports how many rows exist for the pair; used by tests to
// check the one-row invariant.
func (db *DB) StatCount(userID, videoID string) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for i := range db.stats {
		if db.stats[i].UserID == userID && db.stats[i].VideoID == videoID {
			n++
		}
	}
	return n
}
