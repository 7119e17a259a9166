package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/julianstephens/wth/internal/constants"
	wtherrors "github.com/julianstephens/wth/internal/errors"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/migration"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

type PostgresStore struct {
	connStr string
	db      *sql.DB
	kv      *sqlKV
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		connStr: withSearchPath(connStr),
	}
}

// IsPostgresConnString reports whether config names a PostgreSQL database.
func IsPostgresConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// withSearchPath pins search_path to the wth schema unless the caller set one.
func withSearchPath(connStr string) string {
	if IsPostgresConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "search_path") {
			return connStr
		}
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "sslmode") {
			return true
		}
	}
	return false
}

// ValidateConnString checks that connStr is a PostgreSQL URI or DSN without an
// embedded password.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if IsPostgresConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

func (s *PostgresStore) open(ctx context.Context) error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	s.kv = newSQLKV(db, migration.DialectPostgres)
	return nil
}

func (s *PostgresStore) Init(ctx context.Context) error {
	if s.db == nil {
		if err := s.open(ctx); err != nil {
			return wtherrors.NewStorageError("init", "", err)
		}
	}

	if _, err := s.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(constants.AppName)); err != nil {
		return wtherrors.NewStorageError("init", "", fmt.Errorf("failed to create schema: %w", err))
	}

	if _, err := s.Migrate(ctx, func(msg string) { logger.Info(msg) }); err != nil {
		return wtherrors.NewStorageError("init", "", fmt.Errorf("failed to run migrations: %w", err))
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if err := s.open(ctx); err != nil {
		return wtherrors.NewStorageError("load", "", err)
	}
	if err := validateSchemaVersion(ctx, s.db, migration.DialectPostgres); err != nil {
		return wtherrors.NewStorageError("load", "", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.kv = nil
	return err
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.kv.get(ctx, key)
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	return s.kv.set(ctx, key, value)
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return s.kv.delete(ctx, key)
}

func (s *PostgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.kv.keys(ctx, prefix)
}

func (s *PostgresStore) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if s.db == nil {
		return 0, ErrNotInitialized
	}
	return applyMigrations(ctx, s.db, migration.DialectPostgres, logFn)
}

func (s *PostgresStore) SchemaVersion(ctx context.Context) (int, int, error) {
	return schemaVersion(ctx, s.db, migration.DialectPostgres)
}

// GetConfigPath returns a non-sensitive identifier instead of the connection string.
func (s *PostgresStore) GetConfigPath() string {
	return "postgresql"
}

func (s *PostgresStore) GetDB() *sql.DB {
	return s.db
}
