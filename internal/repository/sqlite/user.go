package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

// userRepo implements domain.UserRepository using SQLite.
type userRepo struct {
	db *sql.DB
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	now := time.Now().UTC()

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateUser
		}
		return storageErr("insert user", err)
	}

	user.CreatedAt = now
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, "SELECT id, username, email, password_hash, role, created_at FROM users WHERE id = ?", id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "SELECT id, username, email, password_hash, role, created_at FROM users WHERE username = ?", username)
}

func (r *userRepo) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("query user", err)
	}
	return u, nil
}
