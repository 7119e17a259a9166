package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	wtherrors "github.com/julianstephens/wth/internal/errors"
)

// JSONStore keeps every key in one JSON object file, rewritten atomically on
// each change.
type JSONStore struct {
	path   string
	mu     sync.RWMutex
	values map[string]string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

// IsJSONPath reports whether config names a JSON file store.
func IsJSONPath(config string) bool {
	return strings.HasSuffix(strings.ToLower(config), ".json")
}

func (s *JSONStore) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return wtherrors.NewStorageError("init", "", fmt.Errorf("failed to create config directory: %w", err))
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	return wtherrors.NewStorageError("init", "", s.save())
}

func (s *JSONStore) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return wtherrors.NewStorageError("load", "", ErrNotInitialized)
		}
		return wtherrors.NewStorageError("load", "", fmt.Errorf("failed to read storage: %w", err))
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return wtherrors.NewStorageError("load", "", fmt.Errorf("failed to parse storage: %w", err))
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temp file in the same directory and renames it over the
// store. Callers hold mu.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".wth-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.values == nil {
		return "", false, wtherrors.NewStorageError("get", key, ErrNotInitialized)
	}
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *JSONStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return wtherrors.NewStorageError("set", key, ErrNotInitialized)
	}
	prev, had := s.values[key]
	s.values[key] = value
	if err := s.save(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return wtherrors.NewStorageError("set", key, err)
	}
	return nil
}

func (s *JSONStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return wtherrors.NewStorageError("delete", key, ErrNotInitialized)
	}
	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.save(); err != nil {
		s.values[key] = prev
		return wtherrors.NewStorageError("delete", key, err)
	}
	return nil
}

func (s *JSONStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.values == nil {
		return nil, wtherrors.NewStorageError("keys", prefix, ErrNotInitialized)
	}
	var keys []string
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
