package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/mediahub/internal/domain"
)

const userColumns = "id, username, email, password_hash, role, created_at"

type userRepo struct {
	pool *pgxpool.Pool
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	now := time.Now().UTC()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.Email, user.PasswordHash, string(user.Role), now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return storageErr("insert user", err)
	}
	user.CreatedAt = now
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (r *userRepo) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		return nil, notFound("query user", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}
