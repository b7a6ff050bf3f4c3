package resign

import (
	"context"
	"testing"

	"backoffice/records"
)

func TestValidate(t *testing.T) {
	base := Request{
		EmployeeName:    "Rina",
		NIK:             "123",
		Email:           "rina@example.com",
		Department:      "HR",
		SubmittedDate:   records.NewDate(2024, 5, 1),
		LastWorkingDate: records.NewDate(2024, 5, 31),
		Reason:          "Personal",
	}
	if err := validate(base); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	cases := []struct {
		name  string
		edit  func(*Request)
		field string
		msg   string
	}{
		{name: "missing email", edit: func(r *Request) { r.Email = "" }, field: "email", msg: "is required"},
		{name: "bad email", edit: func(r *Request) { r.Email = "rina@" }, field: "email", msg: "must be a valid email address"},
		{name: "email with spaces", edit: func(r *Request) { r.Email = "ri na@example.com" }, field: "email", msg: "must be a valid email address"},
		{name: "missing reason", edit: func(r *Request) { r.Reason = " " }, field: "reason", msg: "is required"},
		{name: "last day before submission", edit: func(r *Request) { r.LastWorkingDate = records.NewDate(2024, 4, 30) }, field: "lastWorkingDate", msg: "must not be before submittedDate"},
	}
	for _, tc := range cases {
		r := base
		tc.edit(&r)
		verr, ok := records.AsValidation(validate(r))
		if !ok {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if verr.Fields[tc.field] != tc.msg {
			t.Errorf("%s: expected %q on %s, got %v", tc.name, tc.msg, tc.field, verr.Fields)
		}
	}
}

func TestFixturesAreValid(t *testing.T) {
	recs, err := Fixtures()
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	for _, r := range recs {
		if err := validate(r); err != nil {
			t.Errorf("fixture %s invalid: %v", r.ID, err)
		}
	}
}

func TestService_StatusFilterAndApprove(t *testing.T) {
	ctx := context.Background()
	svc := NewService(records.NewMemoryStore(Schema()))
	recs, _ := Fixtures()
	svc.Seed(ctx, recs)

	pending, err := svc.Select(ctx, records.Query{Status: records.StatusPending})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending requests, got %d", len(pending))
	}

	if _, err := svc.SetStatus(ctx, "hr-lead", "rsg-002", records.StatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	pending, _ = svc.Select(ctx, records.Query{Status: records.StatusPending})
	if len(pending) != 1 || pending[0].ID != "rsg-004" {
		t.Fatalf("expected only rsg-004 pending, got %+v", pending)
	}
}
