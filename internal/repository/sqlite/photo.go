package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

const photoColumns = "id, url, description, created_at, album_id, user_id"

// photoRepo implements domain.PhotoRepository using SQLite.
type photoRepo struct {
	db *sql.DB
}

func (r *photoRepo) Create(ctx context.Context, photo *domain.Photo) error {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now().UTC()
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO photos (id, url, description, created_at, album_id, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		photo.ID, photo.URL, photo.Description, photo.CreatedAt, nullUUID(photo.AlbumID), photo.UserID,
	)
	if err != nil {
		return storageErr("insert photo", err)
	}
	return nil
}

func (r *photoRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+photoColumns+" FROM photos WHERE id = ?", id)

	p, err := scanPhoto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("get photo", err)
	}
	return p, nil
}

func (r *photoRepo) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE photos SET description = ? WHERE id = ?", description, id)
	if err != nil {
		return storageErr("update photo", err)
	}
	return requireRow(result)
}

func (r *photoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM photos WHERE id = ?", id)
	if err != nil {
		return storageErr("delete photo", err)
	}
	return requireRow(result)
}

func (r *photoRepo) List(ctx context.Context, limit, offset int) ([]domain.Photo, error) {
	return r.query(ctx,
		"SELECT "+photoColumns+" FROM photos ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		limit, offset)
}

func (r *photoRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM photos")
}

func (r *photoRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Photo, error) {
	return r.query(ctx,
		"SELECT "+photoColumns+" FROM photos WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		userID, limit, offset)
}

func (r *photoRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM photos WHERE user_id = ?", userID)
}

func (r *photoRepo) ListByAlbum(ctx context.Context, albumID uuid.UUID, limit, offset int) ([]domain.Photo, error) {
	return r.query(ctx,
		"SELECT "+photoColumns+" FROM photos WHERE album_id = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		albumID, limit, offset)
}

func (r *photoRepo) CountByAlbum(ctx context.Context, albumID uuid.UUID) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM photos WHERE album_id = ?", albumID)
}

func (r *photoRepo) AssignAlbum(ctx context.Context, albumID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	marks, args := inClause(ids)
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE photos SET album_id = ? WHERE id IN ("+marks+")",
		append([]any{albumID}, args...)...)
	if err != nil {
		return 0, storageErr("assign photos to album", err)
	}
	return result.RowsAffected()
}

func (r *photoRepo) ClearAlbum(ctx context.Context, albumID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	marks, args := inClause(ids)
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE photos SET album_id = NULL WHERE album_id = ? AND id IN ("+marks+")",
		append([]any{albumID}, args...)...)
	if err != nil {
		return 0, storageErr("remove photos from album", err)
	}
	return result.RowsAffected()
}

func (r *photoRepo) query(ctx context.Context, query string, args ...any) ([]domain.Photo, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list photos", err)
	}
	defer rows.Close()

	var photos []domain.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, storageErr("scan photo", err)
		}
		photos = append(photos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list photos", err)
	}
	return photos, nil
}

func (r *photoRepo) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, storageErr("count photos", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhoto(s scanner) (*domain.Photo, error) {
	var (
		p       domain.Photo
		albumID uuid.NullUUID
	)
	if err := s.Scan(&p.ID, &p.URL, &p.Description, &p.CreatedAt, &albumID, &p.UserID); err != nil {
		return nil, err
	}
	p.AlbumID = uuidPtr(albumID)
	return &p, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
