package records

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps records in insertion order, the way the dashboards held
// their mock arrays. Reads return deep copies so callers cannot alias state.
type MemoryStore[T any] struct {
	schema Schema[T]

	mu      sync.RWMutex
	items   []T
	history map[string][]Event
}

func NewMemoryStore[T any](schema Schema[T]) *MemoryStore[T] {
	return &MemoryStore[T]{
		schema:  schema,
		history: make(map[string][]Event),
	}
}

func (m *MemoryStore[T]) List(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.items))
	for _, it := range m.items {
		c, err := clone(it)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, ErrNotFound
	}
	return clone(m.items[idx])
}

func (m *MemoryStore[T]) Insert(_ context.Context, rec T, change Change) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	id := m.schema.ID(rec)
	if id == "" {
		return zero, fmt.Errorf("records: insert %s: empty id", m.schema.Name)
	}
	if m.indexOf(id) >= 0 {
		return zero, ErrDuplicateID
	}

	stored, err := clone(rec)
	if err != nil {
		return zero, err
	}
	m.items = append(m.items, stored)
	m.appendEvent(id, change)
	return clone(stored)
}

func (m *MemoryStore[T]) Mutate(_ context.Context, id string, fn MutateFunc[T]) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	idx := m.indexOf(id)
	if idx < 0 {
		return zero, ErrNotFound
	}

	current, err := clone(m.items[idx])
	if err != nil {
		return zero, err
	}
	next, change, err := fn(current)
	if err != nil {
		return zero, err
	}
	if change == nil {
		return clone(m.items[idx])
	}

	stored, err := clone(next)
	if err != nil {
		return zero, err
	}
	m.items[idx] = stored
	m.appendEvent(id, *change)
	return clone(stored)
}

func (m *MemoryStore[T]) Delete(_ context.Context, id string, change Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	m.appendEvent(id, change)
	return nil
}

func (m *MemoryStore[T]) History(_ context.Context, id string) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events, ok := m.history[id]
	if !ok {
		// Seeded records exist without history.
		if m.indexOf(id) >= 0 {
			return []Event{}, nil
		}
		return nil, ErrNotFound
	}
	return append([]Event(nil), events...), nil
}

func (m *MemoryStore[T]) Seed(_ context.Context, recs []T) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.items) > 0 {
		return 0, nil
	}
	for _, rec := range recs {
		c, err := clone(rec)
		if err != nil {
			return 0, err
		}
		m.items = append(m.items, c)
	}
	return len(recs), nil
}

func (m *MemoryStore[T]) indexOf(id string) int {
	for i, it := range m.items {
		if m.schema.ID(it) == id {
			return i
		}
	}
	return -1
}

func (m *MemoryStore[T]) appendEvent(id string, change Change) {
	events := m.history[id]
	m.history[id] = append(events, Event{
		Entity:    m.schema.Name,
		RecordID:  id,
		Seq:       len(events) + 1,
		Type:      change.Type,
		ActorID:   change.ActorID,
		Payload:   change.Payload,
		CreatedAt: change.At,
	})
}

func clone[T any](v T) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("records: clone: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("records: clone: %w", err)
	}
	return out, nil
}
