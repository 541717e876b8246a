package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/mediahub/internal/domain"
)

const reactionColumns = "id, reaction_type, photo_id, user_id, created_at"

type reactionRepo struct {
	pool *pgxpool.Pool
}

// Replace stores the reaction, overwriting any earlier one by the same user
// on the same photo in a single upsert. Concurrent replaces resolve to the
// last writer.
func (r *reactionRepo) Replace(ctx context.Context, reaction *domain.Reaction) error {
	if reaction.ID == uuid.Nil {
		reaction.ID = uuid.New()
	}
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO reactions (`+reactionColumns+`) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (photo_id, user_id) DO UPDATE
		 SET id = EXCLUDED.id, reaction_type = EXCLUDED.reaction_type, created_at = EXCLUDED.created_at`,
		reaction.ID, string(reaction.Type), reaction.PhotoID, reaction.UserID, reaction.CreatedAt,
	)
	if err != nil {
		return storageErr("upsert reaction", err)
	}
	return nil
}

func (r *reactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reaction, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+reactionColumns+" FROM reactions WHERE id = $1", id)
	if err != nil {
		return nil, storageErr("get reaction", err)
	}
	re, err := pgx.CollectExactlyOneRow(rows, scanReaction)
	if err != nil {
		return nil, notFound("get reaction", err)
	}
	return &re, nil
}

func (r *reactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM reactions WHERE id = $1", id)
	if err != nil {
		return storageErr("delete reaction", err)
	}
	return requireRow(tag)
}

func (r *reactionRepo) ListByPhoto(ctx context.Context, photoID uuid.UUID) ([]domain.Reaction, error) {
	return r.query(ctx, "SELECT "+reactionColumns+" FROM reactions WHERE photo_id = $1 ORDER BY created_at, id", photoID)
}

func (r *reactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Reaction, error) {
	return r.query(ctx, "SELECT "+reactionColumns+" FROM reactions WHERE user_id = $1 ORDER BY created_at, id", userID)
}

func (r *reactionRepo) CountByPhoto(ctx context.Context, photoID uuid.UUID) (domain.ReactionCounts, error) {
	var counts domain.ReactionCounts
	err := r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE reaction_type = 'like'),
			COUNT(*) FILTER (WHERE reaction_type = 'dislike')
		 FROM reactions WHERE photo_id = $1`, photoID,
	).Scan(&counts.Likes, &counts.Dislikes)
	if err != nil {
		return counts, storageErr("count reactions", err)
	}
	return counts, nil
}

func (r *reactionRepo) query(ctx context.Context, query string, args ...any) ([]domain.Reaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list reactions", err)
	}
	reactions, err := pgx.CollectRows(rows, scanReaction)
	if err != nil {
		return nil, storageErr("scan reactions", err)
	}
	return reactions, nil
}

func scanReaction(row pgx.CollectableRow) (domain.Reaction, error) {
	var (
		re  domain.Reaction
		typ string
	)
	err := row.Scan(&re.ID, &typ, &re.PhotoID, &re.UserID, &re.CreatedAt)
	re.Type = domain.ReactionType(typ)
	return re, err
}
