package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/mediahub/internal/domain"
)

const photoColumns = "id, url, description, created_at, album_id, user_id"

type photoRepo struct {
	pool *pgxpool.Pool
}

func (r *photoRepo) Create(ctx context.Context, photo *domain.Photo) error {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO photos (id, url, description, created_at, album_id, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		photo.ID, photo.URL, photo.Description, photo.CreatedAt, photo.AlbumID, photo.UserID,
	)
	if err != nil {
		return storageErr("insert photo", err)
	}
	return nil
}

func (r *photoRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+photoColumns+" FROM photos WHERE id = $1", id)
	if err != nil {
		return nil, storageErr("get photo", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPhoto)
	if err != nil {
		return nil, notFound("get photo", err)
	}
	return &p, nil
}

func (r *photoRepo) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE photos SET description = $1 WHERE id = $2", description, id)
	if err != nil {
		return storageErr("update photo", err)
	}
	return requireRow(tag)
}

func (r *photoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM photos WHERE id = $1", id)
	if err != nil {
		return storageErr("delete photo", err)
	}
	return requireRow(tag)
}

func (r *photoRepo) List(ctx context.Context, limit, offset int) ([]domain.Photo, error) {
	return r.query(ctx,
		"SELECT "+photoColumns+" FROM photos ORDER BY created_at DESC, id LIMIT $1 OFFSET $2",
		limit, offset)
}

func (r *photoRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM photos")
}

func (r *photoRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Photo, error) {
	return r.query(ctx,
		"SELECT "+photoColumns+" FROM photos WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3",
		userID, limit, offset)
}

func (r *photoRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM photos WHERE user_id = $1", userID)
}

func (r *photoRepo) ListByAlbum(ctx context.Context, albumID uuid.UUID, limit, offset int) ([]domain.Photo, error) {
	return r.query(ctx,
		"SELECT "+photoColumns+" FROM photos WHERE album_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3",
		albumID, limit, offset)
}

func (r *photoRepo) CountByAlbum(ctx context.Context, albumID uuid.UUID) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM photos WHERE album_id = $1", albumID)
}

func (r *photoRepo) AssignAlbum(ctx context.Context, albumID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx,
		"UPDATE photos SET album_id = $1 WHERE id = ANY($2::uuid[])", albumID, ids)
	if err != nil {
		return 0, storageErr("assign photos to album", err)
	}
	return tag.RowsAffected(), nil
}

func (r *photoRepo) ClearAlbum(ctx context.Context, albumID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx,
		"UPDATE photos SET album_id = NULL WHERE album_id = $1 AND id = ANY($2::uuid[])", albumID, ids)
	if err != nil {
		return 0, storageErr("remove photos from album", err)
	}
	return tag.RowsAffected(), nil
}

func (r *photoRepo) query(ctx context.Context, query string, args ...any) ([]domain.Photo, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list photos", err)
	}
	photos, err := pgx.CollectRows(rows, scanPhoto)
	if err != nil {
		return nil, storageErr("scan photos", err)
	}
	return photos, nil
}

func (r *photoRepo) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, storageErr("count photos", err)
	}
	return n, nil
}

func scanPhoto(row pgx.CollectableRow) (domain.Photo, error) {
	var p domain.Photo
	err := row.Scan(&p.ID, &p.URL, &p.Description, &p.CreatedAt, &p.AlbumID, &p.UserID)
	return p, err
}
