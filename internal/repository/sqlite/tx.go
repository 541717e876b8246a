package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

type txKey struct{}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// conn returns the transaction bound to ctx, or db when there is none.
// With a single pooled connection, every statement inside a transaction
// must go through the transaction or it blocks.
func conn(ctx context.Context, db *sql.DB) executor {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return db
}

// runInTx executes fn inside a transaction. A transaction already bound to
// ctx is reused and left for the outer caller to commit.
func runInTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
