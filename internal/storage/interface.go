package storage

import (
	"context"
	"database/sql"
)

// Backend is a string key/value store. Every error it returns is a
// *errors.StorageError.
type Backend interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Values
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Utils
	GetConfigPath() string
}

// SQLBackend is implemented by the database/sql backed stores.
type SQLBackend interface {
	Backend
	GetDB() *sql.DB
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}
