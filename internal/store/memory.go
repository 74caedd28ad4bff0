package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"portfolio/internal/models"
)

// Memory is the in-process backend of Store. Ids start at 1 and are never
// reused, even after a delete.
type Memory[R any, C models.Creator[R], U models.Patcher[R]] struct {
	mu      sync.RWMutex
	records map[int64]R
	lastID  int64
	order   func(a, b R) int
	match   func(r R, q string) bool
	now     func() time.Time
}

// NewMemoryStore creates an empty Memory. order defines the List order;
// match enables Search and may be nil.
func NewMemoryStore[R any, C models.Creator[R], U models.Patcher[R]](order func(a, b R) int, match func(r R, q string) bool) *Memory[R, C, U] {
	return &Memory[R, C, U]{
		records: make(map[int64]R),
		order:   order,
		match:   match,
		now:     time.Now,
	}
}

func (m *Memory[R, C, U]) List(_ context.Context) ([]R, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]R, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	slices.SortFunc(out, m.order)
	return out, nil
}

func (m *Memory[R, C, U]) Get(_ context.Context, id int64) (*R, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory[R, C, U]) Create(_ context.Context, in C) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	r := in.Record(m.lastID, m.now().UTC())
	m.records[m.lastID] = r
	return &r, nil
}

func (m *Memory[R, C, U]) Update(_ context.Context, id int64, patch U) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&r)
	m.records[id] = r
	return &r, nil
}

func (m *Memory[R, C, U]) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *Memory[R, C, U]) Search(ctx context.Context, q string) ([]R, error) {
	all, err := m.List(ctx)
	if err != nil || m.match == nil {
		return all, err
	}
	return slices.DeleteFunc(all, func(r R) bool { return !m.match(r, q) }), nil
}
