package memory

import (
	"context"
	"testing"

	"discover/internal/app"
	"discover/internal/domain"
)

func TestUserRoundTrip(t *testing.T) {
	db := New()
	ctx := context.Background()

	got, err := db.GetByIssuer(ctx, "did:test:abc")
	if err != nil || got != nil {
		t.Fatalf("expected absent user, got %+v (%v)", got, err)
	}

	created, err := db.Create(ctx, domain.Identity{Issuer: "did:test:abc", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err = db.GetByIssuer(ctx, "did:test:abc")
	if err != nil || got == nil || got.Email != "a@b.c" {
		t.Fatalf("expected created user, got %+v (%v)", got, err)
	}
}

func TestStatInsertAndUpdate(t *testing.T) {
	db := New()
	ctx := context.Background()

	created, err := db.InsertStat(ctx, domain.VideoStat{
		UserID: "u1", VideoID: "R123", Favourited: domain.FavouritedLiked, Watched: true,
	})
	if err != nil || created == nil {
		t.Fatalf("insert: %+v (%v)", created, err)
	}

	updated, err := db.UpdateStat(ctx, "u1", "R123", domain.FavouritedDisliked)
	if err != nil || updated == nil {
		t.Fatalf("update: %+v (%v)", updated, err)
	}
	if updated.Favourited != domain.FavouritedDisliked || !updated.Watched {
		t.Fatalf("unexpected row %+v", updated)
	}

	got, _ := db.GetStat(ctx, "u1", "R123")
	if got.Favourited != domain.FavouritedDisliked {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestUpdateAbsentRow(t *testing.T) {
	db := New()

	updated, err := db.UpdateStat(context.Background(), "u1", "R123", domain.FavouritedLiked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected no row, got %+v", updated)
	}
}

func TestDuplicateInsertCreatesNoSecondRow(t *testing.T) {
	db := New()
	ctx := context.Background()

	first, _ := db.InsertStat(ctx, domain.VideoStat{UserID: "u1", VideoID: "R123", Favourited: domain.FavouritedLiked})
	if first == nil {
		t.Fatal("expected first insert to create a row")
	}

	second, err := db.InsertStat(ctx, domain.VideoStat{UserID: "u1", VideoID: "R123", Favourited: domain.FavouritedDisliked})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != nil {
		t.Fatalf("expected duplicate insert to create nothing, got %+v", second)
	}
	if n := db.StatCount("u1", "R123"); n != 1 {
		t.Fatalf("expected exactly 1 row, got %d", n)
	}
}

// TestOneRowInvariantUnderToggleSequences drives the reconciler through
// toggle sequences — including ones whose routing claim is stale, which
// legitimately fail — and checks the (user, video) pair never ends up
// with more than one row.
func TestOneRowInvariantUnderToggleSequences(t *testing.T) {
	sequences := [][]domain.Favourited{
		{domain.FavouritedLiked},
		{domain.FavouritedLiked, domain.FavouritedDisliked},
		{domain.FavouritedLiked, domain.FavouritedNone, domain.FavouritedLiked},
		{domain.FavouritedDisliked, domain.FavouritedDisliked, domain.FavouritedLiked, domain.FavouritedNone},
	}

	for _, seq := range sequences {
		db := New()
		svc := app.NewStatsService(db)
		ctx := context.Background()

		previous := domain.FavouritedNone
		for _, next := range seq {
			var err error
			if previous == domain.FavouritedNone {
				_, err = svc.Insert(ctx, "u1", "R123", next)
			} else {
				_, err = svc.Update(ctx, "u1", "R123", next)
			}
			if err == nil {
				// A failed toggle rolls the client back; previous is
				// unchanged.
				previous = next
			}
		}

		if n := db.StatCount("u1", "R123"); n > 1 {
			t.Fatalf("sequence %v left %d rows for one pair", seq, n)
		}
	}
}

func TestListWatched(t *testing.T) {
	db := New()
	ctx := context.Background()

	_, _ = db.InsertStat(ctx, domain.VideoStat{UserID: "u1", VideoID: "R1", Favourited: domain.FavouritedLiked, Watched: true})
	_, _ = db.InsertStat(ctx, domain.VideoStat{UserID: "u1", VideoID: "R2", Favourited: domain.FavouritedNone, Watched: false})
	_, _ = db.InsertStat(ctx, domain.VideoStat{UserID: "u2", VideoID: "R3", Favourited: domain.FavouritedLiked, Watched: true})

	watched, err := db.ListWatched(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(watched) != 1 || watched[0].VideoID != "R1" {
		t.Fatalf("unexpected watched list %+v", watched)
	}
}
