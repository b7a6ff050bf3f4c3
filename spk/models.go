// Package spk manages Surat Perintah Kerja, the work order letters HR issues
// for a fixed assignment period.
package spk

import (
	"backoffice/records"
)

// Module is the key used in routes, storage and authorization.
const Module = "spk"

// MaxPeriodMonths bounds the assignment period of a single letter.
const MaxPeriodMonths = 3

type SPK struct {
	ID           string       `json:"id"`
	NoSPK        string       `json:"noSPK"`
	EmployeeName string       `json:"employeeName"`
	NIK          string       `json:"nik"`
	Position     string       `json:"position"`
	Department   string       `json:"department"`
	Location     string       `json:"location"`
	PeriodStart  records.Date `json:"periodStart"`
	PeriodEnd    records.Date `json:"periodEnd"`
	Description  string       `json:"description"`
	Status       string       `json:"status"`
}

func Schema() records.Schema[SPK] {
	return records.Schema[SPK]{
		Name:  Module,
		Title: "Surat Perintah Kerja",
		Fields: []records.Field[SPK]{
			records.TextField("noSPK", "No. SPK", func(s SPK) string { return s.NoSPK }),
			records.TextField("employeeName", "Employee", func(s SPK) string { return s.EmployeeName }),
			records.TextField("nik", "NIK", func(s SPK) string { return s.NIK }),
			records.TextField("position", "Position", func(s SPK) string { return s.Position }),
			records.TextField("department", "Department", func(s SPK) string { return s.Department }),
			records.TextField("location", "Location", func(s SPK) string { return s.Location }),
			records.DateField("periodStart", "Period Start", func(s SPK) records.Date { return s.PeriodStart }),
			records.DateField("periodEnd", "Period End", func(s SPK) records.Date { return s.PeriodEnd }),
			records.TextField("description", "Description", func(s SPK) string { return s.Description }),
			records.TextField("status", "Status", func(s SPK) string { return s.Status }),
		},
		SearchFields:  []string{"noSPK", "employeeName", "nik", "position", "department", "location"},
		DateField:     "periodStart",
		DefaultSort:   "periodStart",
		DefaultOrder:  records.OrderDesc,
		ID:            func(s SPK) string { return s.ID },
		SetID:         func(s *SPK, id string) { s.ID = id },
		Status:        func(s SPK) string { return s.Status },
		SetStatus:     func(s *SPK, st string) { s.Status = st },
		InitialStatus: records.StatusPending,
		Transitions:   records.PendingTransitions(),
		Normalize:     normalize,
		Validate:      validate,
	}
}

func normalize(s *SPK) {
	records.TrimSpace(&s.NoSPK, &s.EmployeeName, &s.NIK, &s.Position, &s.Department, &s.Location, &s.Description)
}

func validate(s SPK) error {
	v := records.NewValidator()
	v.Required("noSPK", s.NoSPK)
	v.Required("employeeName", s.EmployeeName)
	v.Required("position", s.Position)
	v.Required("department", s.Department)
	v.RequiredDate("periodStart", s.PeriodStart)
	v.RequiredDate("periodEnd", s.PeriodEnd)
	v.DateOrder("periodStart", s.PeriodStart, "periodEnd", s.PeriodEnd)
	v.MaxMonths("periodEnd", s.PeriodStart, s.PeriodEnd, MaxPeriodMonths)
	return v.Err()
}
