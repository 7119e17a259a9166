package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	wtherrors "github.com/julianstephens/wth/internal/errors"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/migration"
)

const mysqlScheme = "mysql://"

// EnvMySQLPassword supplies the MySQL password; it must not be part of --config.
const EnvMySQLPassword = "WTH_MYSQL_PASSWORD"

var ErrInvalidMySQLDSN = errors.New("invalid MySQL DSN")

type MySQLStore struct {
	cfg *mysql.Config
	db  *sql.DB
	kv  *sqlKV
}

// IsMySQLDSN reports whether config names a MySQL database.
func IsMySQLDSN(config string) bool {
	return strings.HasPrefix(config, mysqlScheme)
}

// ParseMySQLDSN parses "mysql://user@tcp(host:3306)/wth". Passwords are taken
// from WTH_MYSQL_PASSWORD; a DSN carrying one is rejected.
func ParseMySQLDSN(config string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(strings.TrimPrefix(config, mysqlScheme))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMySQLDSN, err)
	}
	if cfg.Passwd != "" {
		return nil, ErrEmbeddedCredentials
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("%w: database name is required", ErrInvalidMySQLDSN)
	}
	cfg.Passwd = os.Getenv(EnvMySQLPassword)
	cfg.ParseTime = true
	return cfg, nil
}

func NewMySQLStore(cfg *mysql.Config) *MySQLStore {
	return &MySQLStore{cfg: cfg}
}

func (s *MySQLStore) open(ctx context.Context) error {
	connector, err := mysql.NewConnector(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to configure database: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	s.kv = newSQLKV(db, migration.DialectMySQL)
	return nil
}

func (s *MySQLStore) Init(ctx context.Context) error {
	if s.db == nil {
		if err := s.open(ctx); err != nil {
			return wtherrors.NewStorageError("init", "", err)
		}
	}
	if _, err := s.Migrate(ctx, func(msg string) { logger.Info(msg) }); err != nil {
		return wtherrors.NewStorageError("init", "", fmt.Errorf("failed to run migrations: %w", err))
	}
	return nil
}

func (s *MySQLStore) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if err := s.open(ctx); err != nil {
		return wtherrors.NewStorageError("load", "", err)
	}
	if err := validateSchemaVersion(ctx, s.db, migration.DialectMySQL); err != nil {
		return wtherrors.NewStorageError("load", "", err)
	}
	return nil
}

func (s *MySQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.kv = nil
	return err
}

func (s *MySQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.kv.get(ctx, key)
}

func (s *MySQLStore) Set(ctx context.Context, key, value string) error {
	return s.kv.set(ctx, key, value)
}

func (s *MySQLStore) Delete(ctx context.Context, key string) error {
	return s.kv.delete(ctx, key)
}

func (s *MySQLStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.kv.keys(ctx, prefix)
}

func (s *MySQLStore) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if s.db == nil {
		return 0, ErrNotInitialized
	}
	return applyMigrations(ctx, s.db, migration.DialectMySQL, logFn)
}

func (s *MySQLStore) SchemaVersion(ctx context.Context) (int, int, error) {
	return schemaVersion(ctx, s.db, migration.DialectMySQL)
}

// GetConfigPath returns "mysql:<addr>/<db>" without credentials.
func (s *MySQLStore) GetConfigPath() string {
	return fmt.Sprintf("mysql:%s/%s", s.cfg.Addr, s.cfg.DBName)
}

func (s *MySQLStore) GetDB() *sql.DB {
	return s.db
}
