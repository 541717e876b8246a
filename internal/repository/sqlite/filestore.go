package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/msomdec/mediahub/internal/domain"
)

// fileStore implements domain.BlobStore using SQLite BLOBs.
type fileStore struct {
	db *sql.DB
}

func (s *fileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := conn(ctx, s.db).ExecContext(ctx,
		`INSERT INTO file_blobs (storage_key, content_type, data) VALUES (?, ?, ?)
		 ON CONFLICT (storage_key) DO UPDATE SET content_type = excluded.content_type, data = excluded.data`,
		key, contentType, data,
	)
	if err != nil {
		return storageErr("save file blob", err)
	}
	return nil
}

func (s *fileStore) Get(ctx context.Context, key string) (*domain.Blob, error) {
	b := &domain.Blob{Key: key}
	err := conn(ctx, s.db).QueryRowContext(ctx,
		"SELECT content_type, data FROM file_blobs WHERE storage_key = ?", key,
	).Scan(&b.ContentType, &b.Data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("get file blob", err)
	}
	return b, nil
}

func (s *fileStore) Delete(ctx context.Context, key string) error {
	if _, err := conn(ctx, s.db).ExecContext(ctx, "DELETE FROM file_blobs WHERE storage_key = ?", key); err != nil {
		return storageErr("delete file blob", err)
	}
	return nil
}
