package records

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs the shared dashboard workflow for one module: list with
// filters, create and edit through validation, guarded delete, and status
// changes that follow the module's transition graph.
type Service[T any] struct {
	schema      Schema[T]
	store       Store[T]
	logger      *zap.Logger
	idGenerator func() string
	now         func() time.Time
}

// Summary backs the counter cards on top of a dashboard.
type Summary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

func NewService[T any](schema Schema[T], store Store[T]) *Service[T] {
	if store == nil {
		store = NewMemoryStore(schema)
	}
	return &Service[T]{
		schema:      schema,
		store:       store,
		logger:      zap.NewNop(),
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service[T]) WithIDGenerator(gen func() string) *Service[T] {
	s.idGenerator = gen
	return s
}

func (s *Service[T]) WithClock(now func() time.Time) *Service[T] {
	s.now = now
	return s
}

func (s *Service[T]) WithLogger(logger *zap.Logger) *Service[T] {
	if logger != nil {
		s.logger = logger.With(zap.String("module", s.schema.Name))
	}
	return s
}

func (s *Service[T]) Schema() Schema[T] { return s.schema }

func (s *Service[T]) Store() Store[T] { return s.store }

// Seed loads fixtures when the module is empty.
func (s *Service[T]) Seed(ctx context.Context, recs []T) (int, error) {
	n, err := s.store.Seed(ctx, recs)
	if err != nil {
		return 0, fmt.Errorf("records: seed %s: %w", s.schema.Name, err)
	}
	if n > 0 {
		s.logger.Debug("seeded records", zap.Int("count", n))
	}
	return n, nil
}

func (s *Service[T]) List(ctx context.Context, q Query) (Page[T], error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	return Apply(s.schema, all, q), nil
}

// Select returns every record matching q, sorted, without paging.
func (s *Service[T]) Select(ctx context.Context, q Query) ([]T, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return Select(s.schema, all, q), nil
}

func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	return s.store.Get(ctx, id)
}

func (s *Service[T]) Create(ctx context.Context, actorID string, draft T) (T, error) {
	var zero T

	s.schema.SetID(&draft, s.idGenerator())
	if s.schema.SetStatus != nil {
		s.schema.SetStatus(&draft, s.schema.InitialStatus)
	}
	if s.schema.Normalize != nil {
		s.schema.Normalize(&draft)
	}
	if s.schema.Validate != nil {
		if err := s.schema.Validate(draft); err != nil {
			return zero, err
		}
	}

	payload, err := toMap(draft)
	if err != nil {
		return zero, err
	}
	created, err := s.store.Insert(ctx, draft, Change{
		Type:    EventCreated,
		ActorID: actorID,
		Payload: payload,
		At:      s.now().UTC(),
	})
	if err != nil {
		return zero, err
	}

	s.logger.Info("record created", zap.String("id", s.schema.ID(created)), zap.String("actor", actorID))
	return created, nil
}

// Update applies mutate to a copy of the stored record. The id and status
// cannot be changed here; status moves through SetStatus.
func (s *Service[T]) Update(ctx context.Context, actorID, id string, mutate func(*T) error) (T, error) {
	var changed []string

	updated, err := s.store.Mutate(ctx, id, func(current T) (T, *Change, error) {
		var zero T

		before, err := toMap(current)
		if err != nil {
			return zero, nil, err
		}

		next, err := clone(current)
		if err != nil {
			return zero, nil, err
		}
		if err := mutate(&next); err != nil {
			return zero, nil, err
		}
		s.schema.SetID(&next, s.schema.ID(current))
		if s.schema.SetStatus != nil {
			s.schema.SetStatus(&next, s.schema.Status(current))
		}
		if s.schema.Normalize != nil {
			s.schema.Normalize(&next)
		}
		if s.schema.Validate != nil {
			if err := s.schema.Validate(next); err != nil {
				return zero, nil, err
			}
		}

		after, err := toMap(next)
		if err != nil {
			return zero, nil, err
		}
		diff := diffMaps(before, after)
		if len(diff) == 0 {
			return current, nil, nil
		}
		for name := range diff {
			changed = append(changed, name)
		}
		sort.Strings(changed)

		return next, &Change{
			Type:    EventUpdated,
			ActorID: actorID,
			Payload: map[string]any{"changed": changed, "fields": diff},
			At:      s.now().UTC(),
		}, nil
	})
	if err != nil {
		return updated, err
	}

	if len(changed) > 0 {
		s.logger.Info("record updated", zap.String("id", id), zap.Strings("fields", changed), zap.String("actor", actorID))
	}
	return updated, nil
}

// Delete removes the record only when the caller confirmed the action.
func (s *Service[T]) Delete(ctx context.Context, actorID, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.store.Delete(ctx, id, Change{
		Type:    EventDeleted,
		ActorID: actorID,
		At:      s.now().UTC(),
	}); err != nil {
		return err
	}

	s.logger.Info("record deleted", zap.String("id", id), zap.String("actor", actorID))
	return nil
}

// SetStatus moves a record along the module's transition graph.
func (s *Service[T]) SetStatus(ctx context.Context, actorID, id, status, note string) (T, error) {
	var zero T
	if s.schema.SetStatus == nil {
		return zero, fmt.Errorf("records: %s has no status", s.schema.Name)
	}

	next, ok := s.schema.CanonicalStatus(status)
	if !ok {
		return zero, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	var previous string
	updated, err := s.store.Mutate(ctx, id, func(current T) (T, *Change, error) {
		previous = s.schema.Status(current)
		if !s.schema.CanTransition(previous, next) {
			return zero, nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, next)
		}

		rec := current
		s.schema.SetStatus(&rec, next)
		if s.schema.Normalize != nil {
			s.schema.Normalize(&rec)
		}
		if s.schema.Validate != nil {
			if err := s.schema.Validate(rec); err != nil {
				return zero, nil, err
			}
		}

		payload := map[string]any{
			"previous_status": previous,
			"next_status":     next,
		}
		if note = strings.TrimSpace(note); note != "" {
			payload["note"] = note
		}
		return rec, &Change{
			Type:    EventStatusChanged,
			ActorID: actorID,
			Payload: payload,
			At:      s.now().UTC(),
		}, nil
	})
	if err != nil {
		return zero, err
	}

	s.logger.Info("record status changed",
		zap.String("id", id),
		zap.String("from", previous),
		zap.String("to", next),
		zap.String("actor", actorID))
	return updated, nil
}

func (s *Service[T]) History(ctx context.Context, id string) ([]Event, error) {
	return s.store.History(ctx, id)
}

func (s *Service[T]) Summary(ctx context.Context) (Summary, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Total: len(all), ByStatus: map[string]int{}}
	for _, st := range s.schema.Statuses() {
		sum.ByStatus[st] = 0
	}
	if s.schema.Status != nil {
		for _, it := range all {
			sum.ByStatus[s.schema.Status(it)]++
		}
	}
	return sum, nil
}

func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("records: encode: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("records: encode: %w", err)
	}
	return out, nil
}

// diffMaps returns the new value of every top-level key that differs.
func diffMaps(before, after map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range after {
		if old, ok := before[k]; !ok || !reflect.DeepEqual(old, v) {
			out[k] = v
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			out[k] = nil
		}
	}
	return out
}
