package records

import (
	"context"
	"testing"
)

const ticketSeed = `
- id: s-1
  title: Projector
  owner: Eka
  priority: 2
  opened: 2024-04-02
  status: Pending
- id: s-2
  title: Badge reader
  owner: Fajar
  priority: 1
  opened: "2024-04-03"
  status: Approved
`

func TestLoadSeed(t *testing.T) {
	recs, err := LoadSeed[ticket]([]byte(ticketSeed))
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// Quoted and unquoted dates both decode.
	if recs[0].Opened.String() != "2024-04-02" || recs[1].Opened.String() != "2024-04-03" {
		t.Fatalf("unexpected dates %v %v", recs[0].Opened, recs[1].Opened)
	}
	if recs[1].Priority != 1 || recs[1].Status != StatusApproved {
		t.Fatalf("unexpected record %+v", recs[1])
	}

	if _, err := LoadSeed[ticket]([]byte("- id: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMemoryStore_SeedOnlyFillsEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ticketSchema())

	n, err := store.Seed(ctx, sampleTickets())
	if err != nil || n != 4 {
		t.Fatalf("expected 4 seeded, got %d %v", n, err)
	}
	n, err = store.Seed(ctx, sampleTickets())
	if err != nil || n != 0 {
		t.Fatalf("expected second seed to be skipped, got %d %v", n, err)
	}

	events, err := store.History(ctx, "t-1")
	if err != nil || len(events) != 0 {
		t.Fatalf("seeded records have empty history, got %v %v", events, err)
	}
	if _, err := store.History(ctx, "nope"); err == nil {
		t.Fatal("expected ErrNotFound for unknown record history")
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ticketSchema())
	store.Seed(ctx, sampleTickets())

	got, _ := store.Get(ctx, "t-1")
	got.Title = "mutated"

	again, _ := store.Get(ctx, "t-1")
	if again.Title != "Broken printer" {
		t.Fatalf("store state leaked through a returned value: %q", again.Title)
	}

	if _, err := store.Insert(ctx, ticket{ID: "t-1"}, Change{Type: EventCreated}); err != ErrDuplicateID {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}
