package records

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated       EventType = "RECORD_CREATED"
	EventUpdated       EventType = "RECORD_UPDATED"
	EventDeleted       EventType = "RECORD_DELETED"
	EventStatusChanged EventType = "STATUS_CHANGED"
)

// Change is the history entry a mutation asks the store to append.
type Change struct {
	Type    EventType
	ActorID string
	Payload map[string]any
	At      time.Time
}

// Event is an appended history entry. Seq increases by one per record.
type Event struct {
	Entity    string         `json:"entity"`
	RecordID  string         `json:"recordId"`
	Seq       int            `json:"seq"`
	Type      EventType      `json:"type"`
	ActorID   string         `json:"actorId,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// MutateFunc receives a private copy of the current record. Returning a nil
// change leaves the store untouched.
type MutateFunc[T any] func(current T) (next T, change *Change, err error)

// Store persists the records of one module together with their history.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, rec T, change Change) (T, error)
	// Mutate runs fn while the record is locked against concurrent writers.
	Mutate(ctx context.Context, id string, fn MutateFunc[T]) (T, error)
	Delete(ctx context.Context, id string, change Change) error
	History(ctx context.Context, id string) ([]Event, error)
	// Seed loads fixtures into an empty module and reports how many were added.
	Seed(ctx context.Context, recs []T) (int, error)
}
