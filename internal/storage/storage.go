package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// Open selects a backend from config: a postgres:// URL, a mysql:// DSN, a
// *.json file, or otherwise a SQLite database path.
func Open(config string) (Backend, error) {
	switch {
	case IsPostgresConnString(config):
		if err := ValidateConnString(config); err != nil {
			return nil, err
		}
		return NewPostgresStore(config), nil
	case IsMySQLDSN(config):
		cfg, err := ParseMySQLDSN(config)
		if err != nil {
			return nil, err
		}
		return NewMySQLStore(cfg), nil
	case IsJSONPath(config):
		return NewJSONStore(ExpandPath(config)), nil
	case strings.TrimSpace(config) == "":
		return nil, fmt.Errorf("no storage configured")
	default:
		return NewSQLiteStore(ExpandPath(config)), nil
	}
}
