package session

import (
	"context"
	"encoding/json"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// MemoryStorage keeps the snapshot in process memory. It is the default
// Storage: hydration across restarts becomes a no-op, which is the correct
// fail-open-to-anonymous behavior when no durable store is wired.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

var _ Storage = &MemoryStorage{}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load(ctx context.Context) (*Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil, false, nil
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(s.data, snap); err != nil {
		return nil, false, goerrors.Wrap(err, goerrors.CategoryInternal, "corrupt session snapshot")
	}
	return snap, true, nil
}

func (s *MemoryStorage) Save(ctx context.Context, snap *Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode session snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = payload
	return nil
}

func (s *MemoryStorage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
