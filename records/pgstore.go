package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps each record as a JSONB document in the records table and
// writes its history row inside the same transaction as the mutation.
type PGStore[T any] struct {
	pool   *pgxpool.Pool
	schema Schema[T]
}

func NewPGStore[T any](pool *pgxpool.Pool, schema Schema[T]) *PGStore[T] {
	return &PGStore[T]{pool: pool, schema: schema}
}

func (s *PGStore[T]) List(ctx context.Context) ([]T, error) {
	const query = `
		SELECT payload
		FROM records
		WHERE entity = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, s.schema.Name)
	if err != nil {
		return nil, fmt.Errorf("records: list %s: %w", s.schema.Name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("records: scan %s: %w", s.schema.Name, err)
		}
		rec, err := s.decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: iterate %s: %w", s.schema.Name, err)
	}
	return out, nil
}

func (s *PGStore[T]) Get(ctx context.Context, id string) (T, error) {
	const query = `SELECT payload FROM records WHERE entity = $1 AND id = $2`

	var payload []byte
	if err := s.pool.QueryRow(ctx, query, s.schema.Name, id).Scan(&payload); err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("records: get %s: %w", s.schema.Name, err)
	}
	return s.decode(payload)
}

func (s *PGStore[T]) Insert(ctx context.Context, rec T, change Change) (T, error) {
	var zero T
	id := s.schema.ID(rec)
	if id == "" {
		return zero, fmt.Errorf("records: insert %s: empty id", s.schema.Name)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("records: marshal %s: %w", s.schema.Name, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("records: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertSQL = `INSERT INTO records (entity, id, payload) VALUES ($1, $2, $3::jsonb)`
	if _, err := tx.Exec(ctx, insertSQL, s.schema.Name, id, string(payload)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return zero, ErrDuplicateID
		}
		return zero, fmt.Errorf("records: insert %s: %w", s.schema.Name, err)
	}

	if err := appendEvent(ctx, tx, s.schema.Name, id, change); err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("records: commit insert: %w", err)
	}
	return rec, nil
}

func (s *PGStore[T]) Mutate(ctx context.Context, id string, fn MutateFunc[T]) (T, error) {
	var zero T

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("records: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const lockSQL = `
		SELECT payload
		FROM records
		WHERE entity = $1 AND id = $2
		FOR UPDATE
	`
	var payload []byte
	if err := tx.QueryRow(ctx, lockSQL, s.schema.Name, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("records: lock %s: %w", s.schema.Name, err)
	}

	current, err := s.decode(payload)
	if err != nil {
		return zero, err
	}
	next, change, err := fn(current)
	if err != nil {
		return zero, err
	}
	if change == nil {
		return s.decode(payload)
	}

	body, err := json.Marshal(next)
	if err != nil {
		return zero, fmt.Errorf("records: marshal %s: %w", s.schema.Name, err)
	}

	const updateSQL = `
		UPDATE records
		SET payload = $3::jsonb,
		    updated_at = now()
		WHERE entity = $1 AND id = $2
	`
	if _, err := tx.Exec(ctx, updateSQL, s.schema.Name, id, string(body)); err != nil {
		return zero, fmt.Errorf("records: update %s: %w", s.schema.Name, err)
	}

	if err := appendEvent(ctx, tx, s.schema.Name, id, *change); err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("records: commit update: %w", err)
	}
	return next, nil
}

func (s *PGStore[T]) Delete(ctx context.Context, id string, change Change) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("records: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM records WHERE entity = $1 AND id = $2`, s.schema.Name, id)
	if err != nil {
		return fmt.Errorf("records: delete %s: %w", s.schema.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := appendEvent(ctx, tx, s.schema.Name, id, change); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("records: commit delete: %w", err)
	}
	return nil
}

func (s *PGStore[T]) History(ctx context.Context, id string) ([]Event, error) {
	const query = `
		SELECT seq, type, COALESCE(actor_id, ''), payload, created_at
		FROM timeline_events
		WHERE entity = $1 AND record_id = $2
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, s.schema.Name, id)
	if err != nil {
		return nil, fmt.Errorf("records: history %s: %w", s.schema.Name, err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		ev := Event{Entity: s.schema.Name, RecordID: id}
		var payload []byte
		if err := rows.Scan(&ev.Seq, &ev.Type, &ev.ActorID, &payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("records: scan history: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &ev.Payload); err != nil {
				return nil, fmt.Errorf("records: decode history payload: %w", err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: iterate history: %w", err)
	}

	if len(events) == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *PGStore[T]) Seed(ctx context.Context, recs []T) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("records: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialise concurrent seeders of the same module.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, s.schema.Name); err != nil {
		return 0, fmt.Errorf("records: seed lock: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM records WHERE entity = $1`, s.schema.Name).Scan(&count); err != nil {
		return 0, fmt.Errorf("records: seed count: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		payload, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("records: marshal seed: %w", err)
		}
		batch.Queue(`INSERT INTO records (entity, id, payload) VALUES ($1, $2, $3::jsonb) ON CONFLICT DO NOTHING`,
			s.schema.Name, s.schema.ID(rec), string(payload))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("records: seed insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("records: commit seed: %w", err)
	}
	return len(recs), nil
}

func (s *PGStore[T]) decode(payload []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(payload, &rec); err != nil {
		return rec, fmt.Errorf("records: decode %s: %w", s.schema.Name, err)
	}
	return rec, nil
}

func appendEvent(ctx context.Context, tx pgx.Tx, entity, recordID string, change Change) error {
	payload := change.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("records: marshal event payload: %w", err)
	}

	at := change.At
	if at.IsZero() {
		at = time.Now()
	}
	var actor any
	if change.ActorID != "" {
		actor = change.ActorID
	}

	const insertSQL = `
		INSERT INTO timeline_events (entity, record_id, seq, type, actor_id, payload, created_at)
		SELECT $1::text, $2::text, COALESCE(MAX(seq), 0) + 1, $3::text, $4::text, $5::jsonb, $6::timestamptz
		FROM timeline_events
		WHERE entity = $1::text AND record_id = $2::text
	`
	if _, err := tx.Exec(ctx, insertSQL, entity, recordID, string(change.Type), actor, string(body), at.UTC()); err != nil {
		return fmt.Errorf("records: insert timeline event: %w", err)
	}
	return nil
}
