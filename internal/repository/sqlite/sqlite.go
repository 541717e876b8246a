package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
	"github.com/msomdec/mediahub/internal/migrations"
	sqlitemigrations "github.com/msomdec/mediahub/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

var _ domain.Database = (*DB)(nil)

// DB wraps a SQLite connection and hands out repositories bound to it.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}

	// A single connection keeps pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies the embedded SQLite schema.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB, sqlitemigrations.FS, migrations.BindQuestion)
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.SqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.SqlDB.Close()
}

func (d *DB) Users() domain.UserRepository {
	return &userRepo{db: d.SqlDB}
}

func (d *DB) Photos() domain.PhotoRepository {
	return &photoRepo{db: d.SqlDB}
}

func (d *DB) Albums() domain.AlbumRepository {
	return &albumRepo{db: d.SqlDB}
}

func (d *DB) Reactions() domain.ReactionRepository {
	return &reactionRepo{db: d.SqlDB}
}

// FileStore returns a blob store that keeps photo bytes in this database.
func (d *DB) FileStore() domain.BlobStore {
	return &fileStore{db: d.SqlDB}
}

// storageErr classifies a driver failure as storage unavailability while
// keeping the driver error in the chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// inClause renders "?, ?, ?" for ids and returns them as query args.
func inClause(ids []uuid.UUID) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}
