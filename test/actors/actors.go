package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"backoffice/records"
)

// Created collects ids minted by Creator so the other actors can fight over them.
type Created struct {
	ch chan string
}

func NewCreated(size int) *Created {
	return &Created{ch: make(chan string, size)}
}

func (c *Created) put(id string) {
	select {
	case c.ch <- id:
	default:
	}
}

func (c *Created) take() (string, bool) {
	select {
	case id := <-c.ch:
		return id, true
	default:
		return "", false
	}
}

// Creator keeps inserting drafts built by draft.
func Creator[T any](ctx context.Context, svc *records.Service[T], draft func(n int) T, out *Created, stop <-chan struct{}) error {
	for n := 0; ; n++ {
		if done(ctx, stop) {
			return nil
		}
		rec, err := svc.Create(ctx, "stress-creator", draft(n))
		if err != nil {
			if err := unexpected(err); err != nil {
				return fmt.Errorf("creator: %w", err)
			}
		} else {
			out.put(svc.Schema().ID(rec))
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Editor applies edit to random records, including ones deleted under it.
func Editor[T any](ctx context.Context, svc *records.Service[T], ids []string, edit func(*T, int), stop <-chan struct{}) error {
	for n := 0; ; n++ {
		if done(ctx, stop) {
			return nil
		}
		id := ids[rand.Intn(len(ids))]
		_, err := svc.Update(ctx, "stress-editor", id, func(rec *T) error {
			edit(rec, n)
			return nil
		})
		if err := unexpected(err); err != nil {
			return fmt.Errorf("editor %s: %w", id, err)
		}
		time.Sleep(time.Duration(15+rand.Intn(35)) * time.Millisecond)
	}
}

// Approver races status changes on the same records; illegal moves are expected.
func Approver[T any](ctx context.Context, svc *records.Service[T], ids []string, stop <-chan struct{}) error {
	statuses := svc.Schema().Statuses()
	for {
		if done(ctx, stop) {
			return nil
		}
		id := ids[rand.Intn(len(ids))]
		next := statuses[rand.Intn(len(statuses))]
		_, err := svc.SetStatus(ctx, "stress-approver", id, next, "")
		if err := unexpected(err); err != nil {
			return fmt.Errorf("approver %s -> %s: %w", id, next, err)
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Deleter removes records minted by Creator, sometimes twice.
func Deleter[T any](ctx context.Context, svc *records.Service[T], in *Created, stop <-chan struct{}) error {
	for {
		if done(ctx, stop) {
			return nil
		}
		if id, ok := in.take(); ok {
			err := svc.Delete(ctx, "stress-deleter", id, true)
			if err := unexpected(err); err != nil {
				return fmt.Errorf("deleter %s: %w", id, err)
			}
			if rand.Intn(4) == 0 {
				_ = svc.Delete(ctx, "stress-deleter", id, true)
			}
		}
		time.Sleep(time.Duration(30+rand.Intn(50)) * time.Millisecond)
	}
}

// Lister pages through the module with random filters.
func Lister[T any](ctx context.Context, svc *records.Service[T], stop <-chan struct{}) error {
	statuses := append([]string{""}, svc.Schema().Statuses()...)
	for {
		if done(ctx, stop) {
			return nil
		}
		_, err := svc.List(ctx, records.Query{
			Status:   statuses[rand.Intn(len(statuses))],
			Page:     1 + rand.Intn(3),
			PageSize: 5,
		})
		if err := unexpected(err); err != nil {
			return fmt.Errorf("lister: %w", err)
		}
		time.Sleep(time.Duration(40+rand.Intn(40)) * time.Millisecond)
	}
}

func done(ctx context.Context, stop <-chan struct{}) bool {
	select {
	case <-ctx.Done():
		return true
	case <-stop:
		return true
	default:
		return false
	}
}

// unexpected filters out outcomes that are normal under contention or chaos.
// A server-side SQL error outside the connection classes is a bug.
func unexpected(err error) error {
	if err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, records.ErrNotFound) ||
		errors.Is(err, records.ErrInvalidTransition) {
		return nil
	}
	if _, ok := records.AsValidation(err); ok {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code[:2] {
		case "08", "57": // connection exception, operator intervention
			return nil
		}
		return err
	}
	// Broken sockets after a terminated backend surface as plain errors.
	return nil
}
