package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
	"github.com/msomdec/mediahub/internal/repository/memory"
)

func TestPhotoService_AddAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newUser(t, env.db, "alice", domain.RoleUser)

	photo := env.upload(t, alice, "beach")
	if photo.ID == uuid.Nil {
		t.Fatal("expected photo ID")
	}
	if photo.UserID != alice.UserID {
		t.Fatalf("expected owner %s, got %s", alice.UserID, photo.UserID)
	}

	got, err := env.photos.GetPhoto(ctx, photo.ID)
	if err != nil {
		t.Fatalf("GetPhoto: %v", err)
	}
	if got.URL != photo.URL || got.Description != "beach" {
		t.Fatalf("unexpected photo %+v", got)
	}

	key, err := env.media.KeyFromURL(got.URL)
	if err != nil {
		t.Fatalf("KeyFromURL: %v", err)
	}
	blob, err := env.blobs.Get(ctx, key)
	if err != nil {
		t.Fatalf("blob Get: %v", err)
	}
	if !bytes.Equal(blob.Data, pngBytes) {
		t.Fatal("blob bytes differ from upload")
	}
}

func TestPhotoService_AddRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.photos.AddPhoto(context.Background(), domain.Identity{},
		domain.FileUpload{Filename: "a.png", Data: pngBytes}, "")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPhotoService_AddRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	alice := newUser(t, env.db, "alice", domain.RoleUser)

	_, err := env.photos.AddPhoto(context.Background(), alice,
		domain.FileUpload{Filename: "notes.txt", Data: []byte("just text")}, "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// failingPhotos fails every Create.
type failingPhotos struct {
	domain.PhotoRepository
}

func (failingPhotos) Create(ctx context.Context, photo *domain.Photo) error {
	return errors.New("disk full")
}

// recordingBlobs remembers every key written and deleted.
type recordingBlobs struct {
	domain.BlobStore
	puts    []string
	deletes []string
}

func (r *recordingBlobs) Put(ctx context.Context, key string, data []byte, contentType string) error {
	r.puts = append(r.puts, key)
	return r.BlobStore.Put(ctx, key, data, contentType)
}

func (r *recordingBlobs) Delete(ctx context.Context, key string) error {
	r.deletes = append(r.deletes, key)
	return r.BlobStore.Delete(ctx, key)
}

func TestPhotoService_AddCompensatesFailedInsert(t *testing.T) {
	db := newTestDB(t)
	inner, err := memory.NewBlobStore()
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	blobs := &recordingBlobs{BlobStore: inner}
	env := newTestEnvWith(t, db, failingPhotos{db.Photos()}, blobs)
	alice := newUser(t, db, "alice", domain.RoleUser)

	_, err = env.photos.AddPhoto(context.Background(), alice, domain.FileUpload{Filename: "a.png", Data: pngBytes}, "")

	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if len(blobs.puts) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(blobs.puts))
	}
	if len(blobs.deletes) != 1 || blobs.deletes[0] != blobs.puts[0] {
		t.Fatalf("expected compensating delete of %v, got %v", blobs.puts, blobs.deletes)
	}
	if _, err := inner.Get(context.Background(), blobs.puts[0]); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected orphan blob to be removed, got %v", err)
	}
}

var errBucketOffline = errors.New("bucket offline")

// offlineDeletes fails every blob Delete.
type offlineDeletes struct {
	domain.BlobStore
}

func (offlineDeletes) Delete(ctx context.Context, key string) error {
	return errBucketOffline
}

// flakyPhotoDeletes fails the first record Delete and passes later ones
// through.
type flakyPhotoDeletes struct {
	domain.PhotoRepository
	failed bool
}

func (f *flakyPhotoDeletes) Delete(ctx context.Context, id uuid.UUID) error {
	if !f.failed {
		f.failed = true
		return fmt.Errorf("delete photo: %w", domain.ErrStorageUnavailable)
	}
	return f.PhotoRepository.Delete(ctx, id)
}

func TestPhotoService_DeleteKeepsRecordWhenBlobDeleteFails(t *testing.T) {
	db := newTestDB(t)
	inner, err := memory.NewBlobStore()
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	env := newTestEnvWith(t, db, db.Photos(), offlineDeletes{inner})
	ctx := context.Background()
	alice := newUser(t, db, "alice", domain.RoleUser)
	photo := env.upload(t, alice, "")

	if err := env.photos.DeletePhoto(ctx, alice, photo.ID); !errors.Is(err, errBucketOffline) {
		t.Fatalf("expected blob error to propagate, got %v", err)
	}
	if _, err := env.photos.GetPhoto(ctx, photo.ID); err != nil {
		t.Fatalf("expected record to remain, got %v", err)
	}
	key, err := env.media.KeyFromURL(photo.URL)
	if err != nil {
		t.Fatalf("KeyFromURL: %v", err)
	}
	if _, err := inner.Get(ctx, key); err != nil {
		t.Fatalf("expected blob to remain, got %v", err)
	}
}

func TestPhotoService_DeleteRetriesAfterRecordDeleteFails(t *testing.T) {
	db := newTestDB(t)
	blobs, err := memory.NewBlobStore()
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	photos := &flakyPhotoDeletes{PhotoRepository: db.Photos()}
	env := newTestEnvWith(t, db, photos, blobs)
	ctx := context.Background()
	alice := newUser(t, db, "alice", domain.RoleUser)
	photo := env.upload(t, alice, "")
	key, err := env.media.KeyFromURL(photo.URL)
	if err != nil {
		t.Fatalf("KeyFromURL: %v", err)
	}

	if err := env.photos.DeletePhoto(ctx, alice, photo.ID); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if _, err := blobs.Get(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected blob to be gone after first attempt, got %v", err)
	}
	if _, err := env.photos.GetPhoto(ctx, photo.ID); err != nil {
		t.Fatalf("expected record to remain after failed delete, got %v", err)
	}

	// The blob is already missing; the retry must still remove the record.
	if err := env.photos.DeletePhoto(ctx, alice, photo.ID); err != nil {
		t.Fatalf("retry DeletePhoto: %v", err)
	}
	if _, err := env.photos.GetPhoto(ctx, photo.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after retry, got %v", err)
	}
}

func TestPhotoService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newUser(t, env.db, "alice", domain.RoleUser)
	photo := env.upload(t, alice, "")
	key, _ := env.media.KeyFromURL(photo.URL)

	if err := env.photos.DeletePhoto(ctx, alice, photo.ID); err != nil {
		t.Fatalf("DeletePhoto: %v", err)
	}
	if _, err := env.photos.GetPhoto(ctx, photo.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := env.blobs.Get(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected blob to be gone, got %v", err)
	}
	if err := env.photos.DeletePhoto(ctx, alice, photo.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestPhotoService_NonOwnerCannotMutate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newUser(t, env.db, "alice", domain.RoleUser)
	bob := newUser(t, env.db, "bob", domain.RoleUser)
	photo := env.upload(t, alice, "original")

	if err := env.photos.DeletePhoto(ctx, bob, photo.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}

	// Claiming ownership in the payload does not help.
	forged := &domain.Photo{ID: photo.ID, UserID: bob.UserID, Description: "hacked"}
	if _, err := env.photos.UpdatePhoto(ctx, bob, forged); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on update, got %v", err)
	}
	// Payload owner mismatch is rejected before any lookup.
	other := &domain.Photo{ID: photo.ID, UserID: alice.UserID, Description: "hacked"}
	if _, err := env.photos.UpdatePhoto(ctx, bob, other); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on update, got %v", err)
	}

	got, err := env.photos.GetPhoto(ctx, photo.ID)
	if err != nil {
		t.Fatalf("photo should still exist: %v", err)
	}
	if got.Description != "original" {
		t.Fatalf("description changed to %q", got.Description)
	}
	key, _ := env.media.KeyFromURL(photo.URL)
	if _, err := env.blobs.Get(ctx, key); err != nil {
		t.Fatalf("blob should still exist: %v", err)
	}
}

func TestPhotoService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newUser(t, env.db, "alice", domain.RoleUser)
	admin := newUser(t, env.db, "admin", domain.RoleAdmin)
	photo := env.upload(t, alice, "before")

	updated, err := env.photos.UpdatePhoto(ctx, alice,
		&domain.Photo{ID: photo.ID, UserID: alice.UserID, Description: "after", URL: "http://evil/x.png"})
	if err != nil {
		t.Fatalf("UpdatePhoto: %v", err)
	}
	if updated.Description != "after" || updated.URL != photo.URL {
		t.Fatalf("expected only description to change, got %+v", updated)
	}

	if _, err := env.photos.UpdatePhoto(ctx, admin,
		&domain.Photo{ID: photo.ID, UserID: alice.UserID, Description: "by admin"}); err != nil {
		t.Fatalf("admin UpdatePhoto: %v", err)
	}

	missing := &domain.Photo{ID: uuid.New(), UserID: alice.UserID}
	if _, err := env.photos.UpdatePhoto(ctx, alice, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPhotoService_AdminCanDelete(t *testing.T) {
	env := newTestEnv(t)
	alice := newUser(t, env.db, "alice", domain.RoleUser)
	admin := newUser(t, env.db, "admin", domain.RoleAdmin)
	photo := env.upload(t, alice, "")

	if err := env.photos.DeletePhoto(context.Background(), admin, photo.ID); err != nil {
		t.Fatalf("admin DeletePhoto: %v", err)
	}
}

func TestPhotoService_Listings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newUser(t, env.db, "alice", domain.RoleUser)
	bob := newUser(t, env.db, "bob", domain.RoleUser)
	for i := 0; i < 3; i++ {
		env.upload(t, alice, "")
	}
	env.upload(t, bob, "")

	page, err := env.photos.ListPhotos(ctx, 1, 3)
	if err != nil {
		t.Fatalf("ListPhotos: %v", err)
	}
	if len(page.Items) != 3 || page.Total != 4 || page.Page != 1 || page.PageSize != 3 {
		t.Fatalf("unexpected page %+v", page)
	}
	page, err = env.photos.ListPhotos(ctx, 2, 3)
	if err != nil {
		t.Fatalf("ListPhotos page 2: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item on page 2, got %d", len(page.Items))
	}

	// Out of range paging input is clamped.
	page, err = env.photos.ListPhotos(ctx, 0, 1000)
	if err != nil {
		t.Fatalf("ListPhotos clamped: %v", err)
	}
	if page.Page != 1 || page.PageSize != domain.MaxPageSize {
		t.Fatalf("expected clamped paging, got page=%d size=%d", page.Page, page.PageSize)
	}

	// Huge page numbers yield an empty page rather than wrapping around.
	for _, p := range []int{math.MaxInt/domain.MaxPageSize + 2, math.MaxInt} {
		page, err = env.photos.ListPhotos(ctx, p, domain.MaxPageSize)
		if err != nil {
			t.Fatalf("ListPhotos page %d: %v", p, err)
		}
		if len(page.Items) != 0 || page.Total != 4 {
			t.Fatalf("page %d: expected no items of 4, got %d of %d", p, len(page.Items), page.Total)
		}
		if domain.Offset(page.Page, page.PageSize) < 0 {
			t.Fatalf("page %d: negative offset", p)
		}
	}

	mine, err := env.photos.ListUserPhotos(ctx, bob, 1, 10)
	if err != nil {
		t.Fatalf("ListUserPhotos: %v", err)
	}
	if mine.Total != 1 || len(mine.Items) != 1 || mine.Items[0].UserID != bob.UserID {
		t.Fatalf("unexpected user page %+v", mine)
	}

	if _, err := env.photos.ListAlbumPhotos(ctx, uuid.New(), 1, 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown album, got %v", err)
	}
}
