package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/mediahub/internal/domain"
	"github.com/msomdec/mediahub/internal/repository/memory"
	"github.com/msomdec/mediahub/internal/repository/sqlite"
	"github.com/msomdec/mediahub/internal/service"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests-0123456789"
	testBaseURL   = "http://localhost:8080/media"
	testContainer = "images"
)

// pngBytes starts with the PNG signature so content sniffing sees an image.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testEnv struct {
	db        *sqlite.DB
	blobs     domain.BlobStore
	media     *service.MediaManager
	photos    *service.PhotoService
	albums    *service.AlbumService
	reactions *service.ReactionService
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	blobs, err := memory.NewBlobStore()
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	return newTestEnvWith(t, db, db.Photos(), blobs)
}

func newTestEnvWith(t *testing.T, db *sqlite.DB, photos domain.PhotoRepository, blobs domain.BlobStore) *testEnv {
	t.Helper()
	media := service.NewMediaManager(blobs, testBaseURL, testContainer, 1<<20)
	return &testEnv{
		db:        db,
		blobs:     blobs,
		media:     media,
		photos:    service.NewPhotoService(photos, db.Albums(), db.Reactions(), media),
		albums:    service.NewAlbumService(db.Albums(), photos),
		reactions: service.NewReactionService(db.Reactions(), photos),
	}
}

// newUser inserts a user and returns its identity.
func newUser(t *testing.T, db *sqlite.DB, username string, role domain.Role) domain.Identity {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: role}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return domain.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (e *testEnv) upload(t *testing.T, caller domain.Identity, description string) *domain.Photo {
	t.Helper()
	p, err := e.photos.AddPhoto(context.Background(), caller,
		domain.FileUpload{Filename: "pic.png", ContentType: "image/png", Data: pngBytes}, description)
	if err != nil {
		t.Fatalf("AddPhoto: %v", err)
	}
	return p
}
