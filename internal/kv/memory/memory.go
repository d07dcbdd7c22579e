// Package memory is an in-process kv.Substrate, used by tests and by the
// "memory" storage backend.
package memory

import (
	"context"
	"sync"

	"github.com/vbonduro/shishalog/internal/kv"
)

type Store struct {
	mu    sync.RWMutex
	items map[kv.Key][]byte
}

func New() *Store {
	return &Store{items: make(map[kv.Key][]byte)}
}

func (s *Store) Get(ctx context.Context, key kv.Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.items[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Put(ctx context.Context, key kv.Key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = append([]byte(nil), value...)
	return nil
}

// Set stores raw bytes without any JSON checks, for seeding corrupt data in tests.
func (s *Store) Set(key kv.Key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = []byte(value)
}
