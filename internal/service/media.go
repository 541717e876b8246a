package service

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

// MediaManager turns uploads into blobs and blob URLs back into keys. It
// only talks to the blob store.
type MediaManager struct {
	blobs     domain.BlobStore
	baseURL   string
	container string
	maxBytes  int64
	now       func() time.Time
}

// NewMediaManager creates a MediaManager. Object URLs are built as
// baseURL/container/key.
func NewMediaManager(blobs domain.BlobStore, baseURL, container string, maxBytes int64) *MediaManager {
	return &MediaManager{
		blobs:     blobs,
		baseURL:   strings.TrimRight(baseURL, "/"),
		container: container,
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

// Container returns the name of the blob container.
func (m *MediaManager) Container() string {
	return m.container
}

// Upload validates the content, stores it under a fresh date-partitioned
// key and returns its public URL.
func (m *MediaManager) Upload(ctx context.Context, upload domain.FileUpload) (string, error) {
	if len(upload.Data) == 0 {
		return "", fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}
	if m.maxBytes > 0 && int64(len(upload.Data)) > m.maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, m.maxBytes)
	}

	mtype := mimetype.Detect(upload.Data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: %s is not an image", domain.ErrInvalidInput, mtype.String())
	}

	key := m.newKey(upload.Filename, mtype)
	if err := m.blobs.Put(ctx, key, upload.Data, mtype.String()); err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	return m.URL(key), nil
}

// URL returns the public URL for key.
func (m *MediaManager) URL(key string) string {
	return m.baseURL + "/" + m.container + "/" + key
}

// Remove deletes the blob behind photo.URL. A blob that is already gone is
// not an error.
func (m *MediaManager) Remove(ctx context.Context, photo *domain.Photo) error {
	key, err := m.KeyFromURL(photo.URL)
	if err != nil {
		return err
	}
	if err := m.blobs.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Open reads the blob stored under key.
func (m *MediaManager) Open(ctx context.Context, key string) (*domain.Blob, error) {
	if !validKey(key) {
		return nil, fmt.Errorf("%w: bad object key", domain.ErrInvalidInput)
	}
	return m.blobs.Get(ctx, key)
}

// KeyFromURL drops scheme and host from rawURL and keeps the path segments
// following the container segment. When the container name occurs more than
// once, the last occurrence followed by a dated key wins.
func (m *MediaManager) KeyFromURL(rawURL string) (string, error) {
	prefix := m.baseURL + "/" + m.container + "/"
	if key, ok := strings.CutPrefix(rawURL, prefix); ok && validKey(key) {
		return key, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "", fmt.Errorf("%w: malformed photo url", domain.ErrInvalidInput)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != m.container {
			continue
		}
		key := strings.Join(segments[i+1:], "/")
		if validKey(key) && datedKey(key) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: url is not in container %q", domain.ErrInvalidInput, m.container)
}

func (m *MediaManager) newKey(filename string, mtype *mimetype.MIME) string {
	ext := strings.ToLower(path.Ext(filename))
	if !cleanExt(ext) {
		ext = mtype.Extension()
	}
	return m.now().UTC().Format("2006/01/02") + "/" + uuid.NewString() + ext
}

// cleanExt accepts ".png" style extensions made of ASCII letters and digits.
func cleanExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// datedKey reports whether key has the yyyy/MM/dd/name layout of newKey.
func datedKey(key string) bool {
	parts := strings.SplitN(key, "/", 4)
	if len(parts) != 4 {
		return false
	}
	_, err := time.Parse("2006/01/02", strings.Join(parts[:3], "/"))
	return err == nil
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
