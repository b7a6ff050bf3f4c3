// Package resign tracks resignation requests submitted to HR.
package resign

import (
	"backoffice/records"
)

const Module = "resign"

type Request struct {
	ID              string       `json:"id"`
	EmployeeName    string       `json:"employeeName"`
	NIK             string       `json:"nik"`
	Email           string       `json:"email"`
	Department      string       `json:"department"`
	Position        string       `json:"position"`
	SubmittedDate   records.Date `json:"submittedDate"`
	LastWorkingDate records.Date `json:"lastWorkingDate"`
	Reason          string       `json:"reason"`
	Status          string       `json:"status"`
}

func Schema() records.Schema[Request] {
	return records.Schema[Request]{
		Name:  Module,
		Title: "Resignation Requests",
		Fields: []records.Field[Request]{
			records.TextField("employeeName", "Employee", func(r Request) string { return r.EmployeeName }),
			records.TextField("nik", "NIK", func(r Request) string { return r.NIK }),
			records.TextField("email", "Email", func(r Request) string { return r.Email }),
			records.TextField("department", "Department", func(r Request) string { return r.Department }),
			records.TextField("position", "Position", func(r Request) string { return r.Position }),
			records.DateField("submittedDate", "Submitted", func(r Request) records.Date { return r.SubmittedDate }),
			records.DateField("lastWorkingDate", "Last Working Day", func(r Request) records.Date { return r.LastWorkingDate }),
			records.TextField("reason", "Reason", func(r Request) string { return r.Reason }),
			records.TextField("status", "Status", func(r Request) string { return r.Status }),
		},
		SearchFields:  []string{"employeeName", "nik", "email", "department", "position"},
		DateField:     "submittedDate",
		DefaultSort:   "submittedDate",
		DefaultOrder:  records.OrderDesc,
		ID:            func(r Request) string { return r.ID },
		SetID:         func(r *Request, id string) { r.ID = id },
		Status:        func(r Request) string { return r.Status },
		SetStatus:     func(r *Request, st string) { r.Status = st },
		InitialStatus: records.StatusPending,
		Transitions:   records.PendingTransitions(),
		Normalize: func(r *Request) {
			records.TrimSpace(&r.EmployeeName, &r.NIK, &r.Email, &r.Department, &r.Position, &r.Reason)
		},
		Validate: validate,
	}
}

func validate(r Request) error {
	v := records.NewValidator()
	v.Required("employeeName", r.EmployeeName)
	v.Required("nik", r.NIK)
	v.Required("email", r.Email)
	v.Email("email", r.Email)
	v.Required("department", r.Department)
	v.RequiredDate("submittedDate", r.SubmittedDate)
	v.RequiredDate("lastWorkingDate", r.LastWorkingDate)
	v.Required("reason", r.Reason)
	v.DateOrder("submittedDate", r.SubmittedDate, "lastWorkingDate", r.LastWorkingDate)
	return v.Err()
}
