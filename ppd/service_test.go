package ppd

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"backoffice/records"
)

func TestStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(records.NewMemoryStore(Schema()))

	req, err := svc.Create(ctx, "fin-1", Request{
		NoPPD:       "PPD/9",
		Requester:   "Budi",
		Department:  "Finance",
		Purpose:     "Petty cash",
		Amount:      decimal.NewFromInt(500000),
		RequestDate: records.NewDate(2024, 4, 1),
		NeededDate:  records.NewDate(2024, 4, 2),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetStatus(ctx, "fin-1", req.ID, StatusPaid, ""); !errors.Is(err, records.ErrInvalidTransition) {
		t.Fatalf("pending request must not be paid directly, got %v", err)
	}
	steps := []string{records.StatusRejected, records.StatusPending, records.StatusApproved, StatusPaid}
	for _, st := range steps {
		if _, err := svc.SetStatus(ctx, "fin-1", req.ID, st, ""); err != nil {
			t.Fatalf("transition to %s: %v", st, err)
		}
	}
	if _, err := svc.SetStatus(ctx, "fin-1", req.ID, records.StatusPending, ""); !errors.Is(err, records.ErrInvalidTransition) {
		t.Fatalf("paid is terminal, got %v", err)
	}

	events, _ := svc.History(ctx, req.ID)
	if len(events) != 1+len(steps) {
		t.Fatalf("expected %d events, got %d", 1+len(steps), len(events))
	}
}

func TestValidate(t *testing.T) {
	verr, ok := records.AsValidation(validate(Request{
		RequestDate: records.NewDate(2024, 4, 2),
		NeededDate:  records.NewDate(2024, 4, 1),
	}))
	if !ok {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"noPPD", "requester", "department", "purpose", "amount", "neededDate"} {
		if verr.Fields[field] == "" {
			t.Errorf("expected message for %s, got %v", field, verr.Fields)
		}
	}
}

func TestTotals(t *testing.T) {
	reqs, err := Fixtures()
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	for _, r := range reqs {
		if err := validate(r); err != nil {
			t.Errorf("fixture %s invalid: %v", r.ID, err)
		}
	}
	requested, disbursed := Totals(reqs)
	if !requested.Equal(decimal.NewFromInt(31450000)) {
		t.Fatalf("unexpected requested total %s", requested)
	}
	if !disbursed.Equal(decimal.NewFromInt(15000000)) {
		t.Fatalf("unexpected disbursed total %s", disbursed)
	}
}
func TestFixturesAreValid(t *testing.T) {
	recs, err := Fixtures()
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("expected fixtures")
	}
	schema := Schema()
	for _, r := range recs {
		if err := schema.Validate(r); err != nil {
			t.Errorf("fixture %s invalid: %v", r.ID, err)
		}
		if _, ok := schema.CanonicalStatus(r.Status); !ok {
			t.Errorf("fixture %s has unknown status %q", r.ID, r.Status)
		}
	}
}
