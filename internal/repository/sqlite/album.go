package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

// albumRepo implements domain.AlbumRepository using SQLite.
type albumRepo struct {
	db *sql.DB
}

func (r *albumRepo) Create(ctx context.Context, album *domain.Album) error {
	if album.ID == uuid.Nil {
		album.ID = uuid.New()
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO albums (id, title, user_id, created_at) VALUES (?, ?, ?, ?)",
		album.ID, album.Title, album.UserID, time.Now().UTC(),
	)
	if err != nil {
		return storageErr("insert album", err)
	}
	return nil
}

func (r *albumRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	a := &domain.Album{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, title, user_id FROM albums WHERE id = ?", id,
	).Scan(&a.ID, &a.Title, &a.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("get album", err)
	}
	return a, nil
}

func (r *albumRepo) List(ctx context.Context) ([]domain.Album, error) {
	return r.query(ctx, "SELECT id, title, user_id FROM albums ORDER BY created_at, id")
}

func (r *albumRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Album, error) {
	return r.query(ctx, "SELECT id, title, user_id FROM albums WHERE user_id = ? ORDER BY created_at, id", userID)
}

func (r *albumRepo) FindByTitle(ctx context.Context, title string) ([]domain.Album, error) {
	return r.query(ctx, "SELECT id, title, user_id FROM albums WHERE title = ? ORDER BY created_at, id", title)
}

func (r *albumRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE albums SET title = ? WHERE id = ?", title, id)
	if err != nil {
		return storageErr("update album", err)
	}
	return requireRow(result)
}

func (r *albumRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return runInTx(ctx, r.db, func(ctx context.Context) error {
		ex := conn(ctx, r.db)
		if _, err := ex.ExecContext(ctx, "UPDATE photos SET album_id = NULL WHERE album_id = ?", id); err != nil {
			return storageErr("unfile album photos", err)
		}
		result, err := ex.ExecContext(ctx, "DELETE FROM albums WHERE id = ?", id)
		if err != nil {
			return storageErr("delete album", err)
		}
		return requireRow(result)
	})
}

func (r *albumRepo) query(ctx context.Context, query string, args ...any) ([]domain.Album, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list albums", err)
	}
	defer rows.Close()

	var albums []domain.Album
	for rows.Next() {
		var a domain.Album
		if err := rows.Scan(&a.ID, &a.Title, &a.UserID); err != nil {
			return nil, storageErr("scan album", err)
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list albums", err)
	}
	return albums, nil
}
