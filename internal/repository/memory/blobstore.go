// Package memory provides an in-memory blob store for development and tests.
package memory

import (
	"bytes"
	"context"
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/msomdec/mediahub/internal/domain"
)

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"blob": {
			Name: "blob",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Key"},
				},
			},
		},
	},
}

// BlobStore keeps blobs in a go-memdb table keyed by storage key.
// Contents are lost when the process exits.
type BlobStore struct {
	db *memdb.MemDB
}

var _ domain.BlobStore = (*BlobStore)(nil)

// NewBlobStore returns an empty, ready-to-use BlobStore.
func NewBlobStore() (*BlobStore, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("create memdb: %w", err)
	}
	return &BlobStore{db: db}, nil
}

// Put stores a copy of data under key, replacing any previous blob.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	blob := &domain.Blob{Key: key, ContentType: contentType, Data: bytes.Clone(data)}
	if err := txn.Insert("blob", blob); err != nil {
		return storageErr("put blob", key, err)
	}
	txn.Commit()
	return nil
}

func (s *BlobStore) Get(ctx context.Context, key string) (*domain.Blob, error) {
	txn := s.db.Txn(false)
	raw, err := txn.First("blob", "id", key)
	if err != nil {
		return nil, storageErr("get blob", key, err)
	}
	if raw == nil {
		return nil, domain.ErrNotFound
	}
	stored := raw.(*domain.Blob)
	return &domain.Blob{Key: stored.Key, ContentType: stored.ContentType, Data: bytes.Clone(stored.Data)}, nil
}

// Delete removes the blob under key. Missing keys are not an error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First("blob", "id", key)
	if err != nil {
		return storageErr("find blob", key, err)
	}
	if existing == nil {
		return nil
	}
	if err := txn.Delete("blob", existing); err != nil {
		return storageErr("delete blob", key, err)
	}
	txn.Commit()
	return nil
}

func storageErr(op, key string, err error) error {
	return fmt.Errorf("%s %q: %w: %w", op, key, domain.ErrStorageUnavailable, err)
}
