package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
	"github.com/msomdec/mediahub/internal/repository/postgres"
)

// newTestDB connects to MEDIAHUB_TEST_POSTGRES_DSN and truncates every
// table. The test is skipped when the variable is unset.
func newTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	dsn := os.Getenv("MEDIAHUB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MEDIAHUB_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, dsn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, "TRUNCATE reactions, photos, albums, users"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *postgres.DB, username string) uuid.UUID {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id := seedUser(t, db, "alice")
	got, err := db.Users().GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != id || got.Role != domain.RoleUser {
		t.Fatalf("unexpected user: %+v", got)
	}

	err = db.Users().Create(ctx, &domain.User{Username: "alice", Email: "x@example.com", PasswordHash: "h"})
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if _, err := db.Users().GetByID(ctx, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlbumDeleteUnfilesPhotos(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	album := &domain.Album{Title: "Trip", UserID: owner}
	if err := db.Albums().Create(ctx, album); err != nil {
		t.Fatalf("create album: %v", err)
	}
	photo := &domain.Photo{URL: "http://x/images/a.png", UserID: owner, AlbumID: &album.ID}
	if err := db.Photos().Create(ctx, photo); err != nil {
		t.Fatalf("create photo: %v", err)
	}

	n, err := db.Photos().CountByAlbum(ctx, album.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 member, got %d (%v)", n, err)
	}

	if err := db.Albums().Delete(ctx, album.ID); err != nil {
		t.Fatalf("delete album: %v", err)
	}
	got, err := db.Photos().GetByID(ctx, photo.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AlbumID != nil {
		t.Fatal("expected photo to be unfiled")
	}
}

func TestReactionsReplaceAndCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")

	photo := &domain.Photo{URL: "http://x/images/b.png", UserID: owner}
	if err := db.Photos().Create(ctx, photo); err != nil {
		t.Fatalf("create photo: %v", err)
	}

	for _, typ := range []domain.ReactionType{domain.ReactionLike, domain.ReactionDislike} {
		if err := db.Reactions().Replace(ctx, &domain.Reaction{Type: typ, PhotoID: photo.ID, UserID: fan}); err != nil {
			t.Fatalf("Replace %s: %v", typ, err)
		}
	}
	if err := db.Reactions().Replace(ctx, &domain.Reaction{Type: domain.ReactionLike, PhotoID: photo.ID, UserID: owner}); err != nil {
		t.Fatalf("Replace owner: %v", err)
	}

	counts, err := db.Reactions().CountByPhoto(ctx, photo.ID)
	if err != nil {
		t.Fatalf("CountByPhoto: %v", err)
	}
	if counts.Likes != 1 || counts.Dislikes != 1 {
		t.Fatalf("expected 1 like / 1 dislike, got %+v", counts)
	}
}

func TestReactionsConcurrentReplace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")

	photo := &domain.Photo{URL: "http://x/images/c.png", UserID: owner}
	if err := db.Photos().Create(ctx, photo); err != nil {
		t.Fatalf("create photo: %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		typ := domain.ReactionLike
		if i%2 == 1 {
			typ = domain.ReactionDislike
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- db.Reactions().Replace(ctx, &domain.Reaction{Type: typ, PhotoID: photo.ID, UserID: fan})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Replace: %v", err)
		}
	}

	reactions, err := db.Reactions().ListByUser(ctx, fan)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(reactions) != 1 {
		t.Fatalf("expected exactly 1 reaction, got %d", len(reactions))
	}
}
