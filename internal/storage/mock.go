package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps runs in process. It backs the console when no
// Redis is configured and stands in for Redis in tests.
type MemoryStorage struct {
	mu        sync.RWMutex
	runs      map[uuid.UUID]*RunRecord
	pingError error
}

// Ensure MemoryStorage implements Storage interface
var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		runs: make(map[uuid.UUID]*RunRecord),
	}
}

// SetPingError configures the store to fail on ping with the given error
func (m *MemoryStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) SaveRun(ctx context.Context, rec *RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}
	cp := *rec
	m.runs[rec.ID] = &cp
	return nil
}

func (m *MemoryStorage) LoadRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStorage) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]*RunRecord, 0, len(m.runs))
	for _, rec := range m.runs {
		cp := *rec
		runs = append(runs, &cp)
	}
	slices.SortFunc(runs, func(a, b *RunRecord) int {
		return b.FinishedAt.Compare(a.FinishedAt)
	})
	if limit < len(runs) {
		runs = runs[:max(limit, 0)]
	}
	return runs, nil
}
