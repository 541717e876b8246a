package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

const reactionColumns = "id, reaction_type, photo_id, user_id, created_at"

// reactionRepo implements domain.ReactionRepository using SQLite.
type reactionRepo struct {
	db *sql.DB
}

func (r *reactionRepo) Replace(ctx context.Context, reaction *domain.Reaction) error {
	if reaction.ID == uuid.Nil {
		reaction.ID = uuid.New()
	}
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now().UTC()
	}

	return runInTx(ctx, r.db, func(ctx context.Context) error {
		ex := conn(ctx, r.db)
		if _, err := ex.ExecContext(ctx,
			"DELETE FROM reactions WHERE photo_id = ? AND user_id = ?",
			reaction.PhotoID, reaction.UserID,
		); err != nil {
			return storageErr("drop previous reaction", err)
		}
		if _, err := ex.ExecContext(ctx,
			"INSERT INTO reactions ("+reactionColumns+") VALUES (?, ?, ?, ?, ?)",
			reaction.ID, reaction.Type, reaction.PhotoID, reaction.UserID, reaction.CreatedAt,
		); err != nil {
			return storageErr("insert reaction", err)
		}
		return nil
	})
}

func (r *reactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reaction, error) {
	var re domain.Reaction
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+reactionColumns+" FROM reactions WHERE id = ?", id,
	).Scan(&re.ID, &re.Type, &re.PhotoID, &re.UserID, &re.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("get reaction", err)
	}
	return &re, nil
}

func (r *reactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM reactions WHERE id = ?", id)
	if err != nil {
		return storageErr("delete reaction", err)
	}
	return requireRow(result)
}

func (r *reactionRepo) ListByPhoto(ctx context.Context, photoID uuid.UUID) ([]domain.Reaction, error) {
	return r.query(ctx, "SELECT "+reactionColumns+" FROM reactions WHERE photo_id = ? ORDER BY created_at, id", photoID)
}

func (r *reactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Reaction, error) {
	return r.query(ctx, "SELECT "+reactionColumns+" FROM reactions WHERE user_id = ? ORDER BY created_at, id", userID)
}

func (r *reactionRepo) CountByPhoto(ctx context.Context, photoID uuid.UUID) (domain.ReactionCounts, error) {
	var counts domain.ReactionCounts
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN reaction_type = 'like' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN reaction_type = 'dislike' THEN 1 ELSE 0 END), 0)
		 FROM reactions WHERE photo_id = ?`, photoID,
	).Scan(&counts.Likes, &counts.Dislikes)
	if err != nil {
		return counts, storageErr("count reactions", err)
	}
	return counts, nil
}

func (r *reactionRepo) query(ctx context.Context, query string, args ...any) ([]domain.Reaction, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list reactions", err)
	}
	defer rows.Close()

	var reactions []domain.Reaction
	for rows.Next() {
		var re domain.Reaction
		if err := rows.Scan(&re.ID, &re.Type, &re.PhotoID, &re.UserID, &re.CreatedAt); err != nil {
			return nil, storageErr("scan reaction", err)
		}
		reactions = append(reactions, re)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list reactions", err)
	}
	return reactions, nil
}
