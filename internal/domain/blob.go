package domain

import "context"

// Blob is a stored object with its content type.
type Blob struct {
	Key         string
	ContentType string
	Data        []byte
}

// BlobStore abstracts raw photo byte storage. Implementations exist for
// SQLite BLOBs, MinIO and an in-memory store.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (*Blob, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
