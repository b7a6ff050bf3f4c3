// Package qhse monitors field personnel: certifications, medical checks and
// safety inductions per project.
package qhse

import (
	"backoffice/records"
)

const Module = "qhse"

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type Personnel struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	NIK                 string       `json:"nik"`
	Position            string       `json:"position"`
	Project             string       `json:"project"`
	Certification       string       `json:"certification"`
	CertificationExpiry records.Date `json:"certificationExpiry"`
	MedicalCheckDate    records.Date `json:"medicalCheckDate"`
	SafetyInductionDate records.Date `json:"safetyInductionDate"`
	Status              string       `json:"status"`
}

func Schema() records.Schema[Personnel] {
	return records.Schema[Personnel]{
		Name:  Module,
		Title: "QHSE Personnel Monitoring",
		Fields: []records.Field[Personnel]{
			records.TextField("name", "Name", func(p Personnel) string { return p.Name }),
			records.TextField("nik", "NIK", func(p Personnel) string { return p.NIK }),
			records.TextField("position", "Position", func(p Personnel) string { return p.Position }),
			records.TextField("project", "Project", func(p Personnel) string { return p.Project }),
			records.TextField("certification", "Certification", func(p Personnel) string { return p.Certification }),
			records.DateField("certificationExpiry", "Certification Expiry", func(p Personnel) records.Date { return p.CertificationExpiry }),
			records.DateField("medicalCheckDate", "Medical Check", func(p Personnel) records.Date { return p.MedicalCheckDate }),
			records.DateField("safetyInductionDate", "Safety Induction", func(p Personnel) records.Date { return p.SafetyInductionDate }),
			records.TextField("status", "Status", func(p Personnel) string { return p.Status }),
		},
		SearchFields:  []string{"name", "nik", "position", "project", "certification"},
		DateField:     "certificationExpiry",
		DefaultSort:   "name",
		DefaultOrder:  records.OrderAsc,
		ID:            func(p Personnel) string { return p.ID },
		SetID:         func(p *Personnel, id string) { p.ID = id },
		Status:        func(p Personnel) string { return p.Status },
		SetStatus:     func(p *Personnel, st string) { p.Status = st },
		InitialStatus: StatusActive,
		Transitions: map[string][]string{
			StatusActive:   {StatusInactive},
			StatusInactive: {StatusActive},
		},
		Normalize: func(p *Personnel) {
			records.TrimSpace(&p.Name, &p.NIK, &p.Position, &p.Project, &p.Certification)
		},
		Validate: validate,
	}
}

func validate(p Personnel) error {
	v := records.NewValidator()
	v.Required("name", p.Name)
	v.Required("nik", p.NIK)
	v.Required("position", p.Position)
	v.Required("project", p.Project)
	if p.Certification != "" {
		v.Check(!p.CertificationExpiry.IsZero(), "certificationExpiry", "is required when a certification is set")
	}
	return v.Err()
}
