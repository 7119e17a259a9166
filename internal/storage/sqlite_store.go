package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	wtherrors "github.com/julianstephens/wth/internal/errors"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/migration"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
	kv   *sqlKV
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)
	s.db = db
	s.kv = newSQLKV(db, migration.DialectSQLite)
	return nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return wtherrors.NewStorageError("init", "", fmt.Errorf("failed to create config directory: %w", err))
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return wtherrors.NewStorageError("init", "", err)
		}
	}

	if _, err := s.Migrate(ctx, func(msg string) { logger.Info(msg) }); err != nil {
		return wtherrors.NewStorageError("init", "", fmt.Errorf("failed to run migrations: %w", err))
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return wtherrors.NewStorageError("load", "", ErrNotInitialized)
	}

	if err := s.open(); err != nil {
		return wtherrors.NewStorageError("load", "", err)
	}

	if err := validateSchemaVersion(ctx, s.db, migration.DialectSQLite); err != nil {
		return wtherrors.NewStorageError("load", "", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.kv = nil
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.kv.get(ctx, key)
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return s.kv.set(ctx, key, value)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.kv.delete(ctx, key)
}

func (s *SQLiteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.kv.keys(ctx, prefix)
}

func (s *SQLiteStore) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if s.db == nil {
		return 0, ErrNotInitialized
	}
	return applyMigrations(ctx, s.db, migration.DialectSQLite, logFn)
}

func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, int, error) {
	return schemaVersion(ctx, s.db, migration.DialectSQLite)
}

// TableExists checks if a table exists in the SQLite database. The check is
// case-insensitive to match SQLite's behavior.
func (s *SQLiteStore) TableExists(ctx context.Context, tableName string) (bool, error) {
	if s.db == nil {
		return false, ErrNotInitialized
	}
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
