package domain

import "context"

// Database defines lifecycle operations for the underlying relational store
// and hands out its repositories. Each implementation (SQLite, Postgres)
// owns its own migration files and strategy.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	Users() UserRepository
	Photos() PhotoRepository
	Albums() AlbumRepository
	Reactions() ReactionRepository
}
