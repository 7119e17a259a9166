package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	wtherrors "github.com/julianstephens/wth/internal/errors"
)

// MemoryStore is an in-process Backend. Fail makes matching operations return
// an error, which tests use to exercise the silent failure paths.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	failOn map[string]error // op -> error; "*" matches every op
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: map[string]string{},
		failOn: map[string]error{},
	}
}

// Fail makes op ("get", "set", "delete", "keys" or "*") return err. A nil err
// clears the failure.
func (s *MemoryStore) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, op)
		return
	}
	s.failOn[op] = err
}

func (s *MemoryStore) failure(op string) error {
	if err, ok := s.failOn[op]; ok {
		return err
	}
	return s.failOn["*"]
}

// Raw returns the stored value without failure injection.
func (s *MemoryStore) Raw(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Init(ctx context.Context) error { return nil }
func (s *MemoryStore) Load(ctx context.Context) error { return nil }
func (s *MemoryStore) Close() error                   { return nil }

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("get"); err != nil {
		return "", false, wtherrors.NewStorageError("get", key, err)
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("set"); err != nil {
		return wtherrors.NewStorageError("set", key, err)
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("delete"); err != nil {
		return wtherrors.NewStorageError("delete", key, err)
	}
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("keys"); err != nil {
		return nil, wtherrors.NewStorageError("keys", prefix, err)
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

func (s *MemoryStore) GetConfigPath() string {
	return "memory"
}
