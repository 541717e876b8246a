package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/mediahub/internal/domain"
)

type albumRepo struct {
	pool *pgxpool.Pool
}

func (r *albumRepo) Create(ctx context.Context, album *domain.Album) error {
	if album.ID == uuid.Nil {
		album.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		"INSERT INTO albums (id, title, user_id, created_at) VALUES ($1, $2, $3, $4)",
		album.ID, album.Title, album.UserID, time.Now().UTC(),
	)
	if err != nil {
		return storageErr("insert album", err)
	}
	return nil
}

func (r *albumRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	var a domain.Album
	err := r.pool.QueryRow(ctx, "SELECT id, title, user_id FROM albums WHERE id = $1", id).
		Scan(&a.ID, &a.Title, &a.UserID)
	if err != nil {
		return nil, notFound("get album", err)
	}
	return &a, nil
}

func (r *albumRepo) List(ctx context.Context) ([]domain.Album, error) {
	return r.query(ctx, "SELECT id, title, user_id FROM albums ORDER BY created_at, id")
}

func (r *albumRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Album, error) {
	return r.query(ctx, "SELECT id, title, user_id FROM albums WHERE user_id = $1 ORDER BY created_at, id", userID)
}

func (r *albumRepo) FindByTitle(ctx context.Context, title string) ([]domain.Album, error) {
	return r.query(ctx, "SELECT id, title, user_id FROM albums WHERE title = $1 ORDER BY created_at, id", title)
}

func (r *albumRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE albums SET title = $1 WHERE id = $2", title, id)
	if err != nil {
		return storageErr("update album", err)
	}
	return requireRow(tag)
}

func (r *albumRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "UPDATE photos SET album_id = NULL WHERE album_id = $1", id); err != nil {
			return storageErr("unfile album photos", err)
		}
		tag, err := tx.Exec(ctx, "DELETE FROM albums WHERE id = $1", id)
		if err != nil {
			return storageErr("delete album", err)
		}
		return requireRow(tag)
	})
}

func (r *albumRepo) query(ctx context.Context, query string, args ...any) ([]domain.Album, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list albums", err)
	}
	albums, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Album, error) {
		var a domain.Album
		err := row.Scan(&a.ID, &a.Title, &a.UserID)
		return a, err
	})
	if err != nil {
		return nil, storageErr("scan albums", err)
	}
	return albums, nil
}
