package store

import (
	"context"
	"sync"

	pkgerrors "remit/pkg/errors"
)

// MemoryKV is an in-process KV implementation for tests and simulations.
type MemoryKV struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{states: make(map[string][]byte)}
}

func (s *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.states[key]
	if !ok {
		return nil, pkgerrors.ErrKeyNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryKV) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.states[key] = stored
	return nil
}

func (s *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.states[key]
	return ok, nil
}
