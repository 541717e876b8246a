// Package postgres implements the relational store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/msomdec/mediahub/internal/domain"
	"github.com/msomdec/mediahub/internal/migrations"
	pgmigrations "github.com/msomdec/mediahub/internal/repository/postgres/migrations"
)

var _ domain.Database = (*DB)(nil)

// DB wraps a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New opens a connection pool for dsn and verifies it with a ping.
func New(ctx context.Context, dsn string) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Migrate applies the embedded PostgreSQL schema through a database/sql
// view of the pool.
func (d *DB) Migrate(ctx context.Context) error {
	sqlDB := stdlib.OpenDBFromPool(d.Pool)
	defer sqlDB.Close()
	return migrations.Run(ctx, sqlDB, pgmigrations.FS, migrations.BindDollar)
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

func (d *DB) Close() error {
	d.Pool.Close()
	return nil
}

func (d *DB) Users() domain.UserRepository {
	return &userRepo{pool: d.Pool}
}

func (d *DB) Photos() domain.PhotoRepository {
	return &photoRepo{pool: d.Pool}
}

func (d *DB) Albums() domain.AlbumRepository {
	return &albumRepo{pool: d.Pool}
}

func (d *DB) Reactions() domain.ReactionRepository {
	return &reactionRepo{pool: d.Pool}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func requireRow(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// notFound maps pgx.ErrNoRows to domain.ErrNotFound and anything else to a
// storage failure.
func notFound(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return storageErr(op, err)
}
