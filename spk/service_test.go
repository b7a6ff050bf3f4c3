package spk

import (
	"context"
	"testing"

	"backoffice/records"
)

func validDraft() SPK {
	return SPK{
		NoSPK:        "SPK/HR/2024/099",
		EmployeeName: "Tono",
		Position:     "Welder",
		Department:   "Operations",
		PeriodStart:  records.NewDate(2024, 5, 1),
		PeriodEnd:    records.NewDate(2024, 7, 31),
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	err := validate(SPK{})
	verr, ok := records.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"noSPK", "employeeName", "position", "department", "periodStart", "periodEnd"} {
		if verr.Fields[field] != "is required" {
			t.Errorf("%s: expected required message, got %q", field, verr.Fields[field])
		}
	}
	if len(verr.Fields) != 6 {
		t.Fatalf("expected six messages, got %v", verr.Fields)
	}
}

func TestValidate_PeriodRules(t *testing.T) {
	cases := []struct {
		name  string
		start records.Date
		end   records.Date
		ok    bool
	}{
		{name: "same day", start: records.NewDate(2024, 1, 1), end: records.NewDate(2024, 1, 1), ok: true},
		{name: "exactly three months", start: records.NewDate(2024, 1, 15), end: records.NewDate(2024, 4, 15), ok: true},
		{name: "one day over three months", start: records.NewDate(2024, 1, 15), end: records.NewDate(2024, 4, 16)},
		{name: "month end clamps", start: records.NewDate(2024, 11, 30), end: records.NewDate(2025, 2, 28), ok: true},
		{name: "month end does not roll over", start: records.NewDate(2024, 11, 30), end: records.NewDate(2025, 3, 2)},
		{name: "end before start", start: records.NewDate(2024, 3, 1), end: records.NewDate(2024, 2, 28)},
	}
	for _, tc := range cases {
		s := validDraft()
		s.PeriodStart, s.PeriodEnd = tc.start, tc.end
		err := validate(s)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok {
			verr, ok := records.AsValidation(err)
			if !ok || verr.Fields["periodEnd"] == "" {
				t.Errorf("%s: expected periodEnd error, got %v", tc.name, err)
			}
		}
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

func TestService_CreateAndFilter(t *testing.T) {
	ctx := context.Background()
	svc := NewService(records.NewMemoryStore(Schema()))
	recs, _ := Fixtures()
	if _, err := svc.Seed(ctx, recs); err != nil {
		t.Fatalf("seed: %v", err)
	}

	created, err := svc.Create(ctx, "hr-1", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != records.StatusPending {
		t.Fatalf("expected Pending, got %s", created.Status)
	}

	page, err := svc.List(ctx, records.Query{Match: map[string]string{"department": "engineer"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 engineering letters, got %d", page.Total)
	}
	for _, it := range page.Items {
		if it.Department != "Engineering" {
			t.Fatalf("unexpected department %q", it.Department)
		}
	}
}
