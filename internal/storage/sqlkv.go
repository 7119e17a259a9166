package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	wtherrors "github.com/julianstephens/wth/internal/errors"
	"github.com/julianstephens/wth/internal/migration"
	"github.com/julianstephens/wth/migrations"
)

// ErrNotInitialized is returned by Load when the store has never been set up.
var ErrNotInitialized = errors.New("storage not initialized, run 'wth init' first")

// sqlKV is the key/value table shared by the SQLite, PostgreSQL and MySQL stores.
type sqlKV struct {
	db      *sql.DB
	dialect migration.Dialect
	now     func() time.Time
}

func newSQLKV(db *sql.DB, dialect migration.Dialect) *sqlKV {
	return &sqlKV{db: db, dialect: dialect, now: time.Now}
}

func (kv *sqlKV) upsertQuery() string {
	switch kv.dialect {
	case migration.DialectMySQL:
		return `INSERT INTO kv (kv_key, kv_value, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE kv_value = VALUES(kv_value), updated_at = VALUES(updated_at)`
	default:
		return kv.dialect.Rebind(`INSERT INTO kv (kv_key, kv_value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (kv_key) DO UPDATE SET kv_value = excluded.kv_value, updated_at = excluded.updated_at`)
	}
}

func (kv *sqlKV) get(ctx context.Context, key string) (string, bool, error) {
	if kv == nil || kv.db == nil {
		return "", false, wtherrors.NewStorageError("get", key, ErrNotInitialized)
	}
	var value string
	err := kv.db.QueryRowContext(ctx, kv.dialect.Rebind("SELECT kv_value FROM kv WHERE kv_key = ?"), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wtherrors.NewStorageError("get", key, err)
	}
	return value, true, nil
}

func (kv *sqlKV) set(ctx context.Context, key, value string) error {
	if kv == nil || kv.db == nil {
		return wtherrors.NewStorageError("set", key, ErrNotInitialized)
	}
	_, err := kv.db.ExecContext(ctx, kv.upsertQuery(), key, value, kv.now().UTC())
	return wtherrors.NewStorageError("set", key, err)
}

func (kv *sqlKV) delete(ctx context.Context, key string) error {
	if kv == nil || kv.db == nil {
		return wtherrors.NewStorageError("delete", key, ErrNotInitialized)
	}
	_, err := kv.db.ExecContext(ctx, kv.dialect.Rebind("DELETE FROM kv WHERE kv_key = ?"), key)
	return wtherrors.NewStorageError("delete", key, err)
}

// keys filters in Go; LIKE escaping differs between the three dialects.
func (kv *sqlKV) keys(ctx context.Context, prefix string) ([]string, error) {
	if kv == nil || kv.db == nil {
		return nil, wtherrors.NewStorageError("keys", prefix, ErrNotInitialized)
	}
	rows, err := kv.db.QueryContext(ctx, "SELECT kv_key FROM kv")
	if err != nil {
		return nil, wtherrors.NewStorageError("keys", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, wtherrors.NewStorageError("keys", prefix, err)
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wtherrors.NewStorageError("keys", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func migrationRunner(db *sql.DB, dialect migration.Dialect) (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, dialect.Dir())
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", dialect, err)
	}
	return migration.NewRunner(db, subFS, dialect), nil
}

func applyMigrations(ctx context.Context, db *sql.DB, dialect migration.Dialect, logFn func(string)) (int, error) {
	runner, err := migrationRunner(db, dialect)
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(ctx, logFn)
}

func validateSchemaVersion(ctx context.Context, db *sql.DB, dialect migration.Dialect) error {
	runner, err := migrationRunner(db, dialect)
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}

func schemaVersion(ctx context.Context, db *sql.DB, dialect migration.Dialect) (int, int, error) {
	if db == nil {
		return 0, 0, ErrNotInitialized
	}
	runner, err := migrationRunner(db, dialect)
	if err != nil {
		return 0, 0, err
	}
	current, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		return 0, 0, err
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}
