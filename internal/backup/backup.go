// Package backup keeps rotating copies of the local check-in database.
package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/logger"
)

const timestampFormat = "20060102-150405"

var ErrNoDatabase = errors.New("database does not exist")

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager backs up a file-based store: SQLite via VACUUM INTO, JSON by copy.
type Manager struct {
	dbPath    string
	backupDir string
	suffix    string
	keep      int
	now       func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithRetention sets how many backups rotation keeps.
func WithRetention(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.keep = n
		}
	}
}

func NewManager(dbPath string, opts ...Option) *Manager {
	suffix := constants.BackupFileSuffix
	if strings.EqualFold(filepath.Ext(dbPath), ".json") {
		suffix = ".json"
	}
	m := &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		suffix:    suffix,
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Dir() string {
	return m.backupDir
}

func (m *Manager) isJSON() bool {
	return m.suffix == ".json"
}

// Create writes a new backup and rotates old ones.
func (m *Manager) Create(ctx context.Context) (string, error) {
	path, err := m.create(ctx)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create(ctx context.Context) (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if m.isJSON() {
		err = copyFile(m.dbPath, path)
	} else {
		err = m.vacuumInto(ctx, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+m.suffix)
	for i := 1; fileExists(path); i++ {
		if i > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, i, m.suffix))
	}
	return path, nil
}

func (m *Manager) vacuumInto(ctx context.Context, dest string) error {
	db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		db.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns the backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix) {
			continue
		}
		ts, ok := parseStamp(strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix))
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseStamp accepts "YYYYMMDD-HHMMSS" with an optional "-N" counter.
func parseStamp(s string) (time.Time, bool) {
	if len(s) > len(timestampFormat) && s[len(timestampFormat)] == '-' {
		s = s[:len(timestampFormat)]
	}
	ts, err := time.ParseInLocation(timestampFormat, s, time.Local)
	return ts, err == nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with backupPath. The current database is
// backed up first, outside rotation. The store must be closed.
func (m *Manager) Restore(ctx context.Context, backupPath string) (string, error) {
	if !fileExists(backupPath) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.verify(ctx, backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if fileExists(m.dbPath) {
		var err error
		if previous, err = m.create(ctx); err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if rmErr := os.Remove(tempPath); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Database restored", "from", backupPath, "previous", previous)
	return previous, nil
}

func (m *Manager) verify(ctx context.Context, path string) error {
	if m.isJSON() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return errors.New("not a JSON document")
		}
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	var count int
	return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
