// Package ppd handles Permintaan Pencairan Dana, requests to disburse funds
// against a sales order.
package ppd

import (
	"github.com/shopspring/decimal"

	"backoffice/records"
)

const Module = "ppd"

// StatusPaid is terminal: the money has left the account.
const StatusPaid = "Paid"

type Request struct {
	ID          string          `json:"id"`
	NoPPD       string          `json:"noPPD"`
	NoSO        string          `json:"noSO"`
	Requester   string          `json:"requester"`
	Department  string          `json:"department"`
	Purpose     string          `json:"purpose"`
	Amount      decimal.Decimal `json:"amount"`
	RequestDate records.Date    `json:"requestDate"`
	NeededDate  records.Date    `json:"neededDate"`
	BankAccount string          `json:"bankAccount"`
	Status      string          `json:"status"`
}

func Transitions() map[string][]string {
	t := records.PendingTransitions()
	t[records.StatusApproved] = []string{StatusPaid}
	return t
}

func Schema() records.Schema[Request] {
	return records.Schema[Request]{
		Name:  Module,
		Title: "Permintaan Pencairan Dana",
		Fields: []records.Field[Request]{
			records.TextField("noPPD", "No. PPD", func(r Request) string { return r.NoPPD }),
			records.TextField("noSO", "No. SO", func(r Request) string { return r.NoSO }),
			records.TextField("requester", "Requester", func(r Request) string { return r.Requester }),
			records.TextField("department", "Department", func(r Request) string { return r.Department }),
			records.TextField("purpose", "Purpose", func(r Request) string { return r.Purpose }),
			records.DecimalField("amount", "Amount", func(r Request) decimal.Decimal { return r.Amount }),
			records.DateField("requestDate", "Request Date", func(r Request) records.Date { return r.RequestDate }),
			records.DateField("neededDate", "Needed By", func(r Request) records.Date { return r.NeededDate }),
			records.TextField("bankAccount", "Bank Account", func(r Request) string { return r.BankAccount }),
			records.TextField("status", "Status", func(r Request) string { return r.Status }),
		},
		SearchFields:  []string{"noPPD", "noSO", "requester", "department", "purpose"},
		DateField:     "requestDate",
		DefaultSort:   "requestDate",
		DefaultOrder:  records.OrderDesc,
		ID:            func(r Request) string { return r.ID },
		SetID:         func(r *Request, id string) { r.ID = id },
		Status:        func(r Request) string { return r.Status },
		SetStatus:     func(r *Request, st string) { r.Status = st },
		InitialStatus: records.StatusPending,
		Transitions:   Transitions(),
		Normalize: func(r *Request) {
			records.TrimSpace(&r.NoPPD, &r.NoSO, &r.Requester, &r.Department, &r.Purpose, &r.BankAccount)
		},
		Validate: validate,
	}
}

func validate(r Request) error {
	v := records.NewValidator()
	v.Required("noPPD", r.NoPPD)
	v.Required("requester", r.Requester)
	v.Required("department", r.Department)
	v.Required("purpose", r.Purpose)
	v.Positive("amount", r.Amount)
	v.RequiredDate("requestDate", r.RequestDate)
	v.RequiredDate("neededDate", r.NeededDate)
	v.DateOrder("requestDate", r.RequestDate, "neededDate", r.NeededDate)
	return v.Err()
}
