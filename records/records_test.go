package records

import (
	"strings"
)

// ticket is a small record type shared by the package tests.
type ticket struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Owner    string `json:"owner"`
	Priority int    `json:"priority"`
	Opened   Date   `json:"opened"`
	Status   string `json:"status"`
}

func ticketSchema() Schema[ticket] {
	return Schema[ticket]{
		Name:  "tickets",
		Title: "Tickets",
		Fields: []Field[ticket]{
			TextField("title", "Title", func(t ticket) string { return t.Title }),
			TextField("owner", "Owner", func(t ticket) string { return t.Owner }),
			IntField("priority", "Priority", func(t ticket) int { return t.Priority }),
			DateField("opened", "Opened", func(t ticket) Date { return t.Opened }),
			TextField("status", "Status", func(t ticket) string { return t.Status }),
		},
		SearchFields:  []string{"title", "owner"},
		DateField:     "opened",
		DefaultSort:   "opened",
		DefaultOrder:  OrderDesc,
		ID:            func(t ticket) string { return t.ID },
		SetID:         func(t *ticket, id string) { t.ID = id },
		Status:        func(t ticket) string { return t.Status },
		SetStatus:     func(t *ticket, s string) { t.Status = s },
		InitialStatus: StatusPending,
		Transitions:   PendingTransitions(),
		Normalize: func(t *ticket) {
			t.Title = strings.TrimSpace(t.Title)
			t.Owner = strings.TrimSpace(t.Owner)
		},
		Validate: func(t ticket) error {
			v := NewValidator()
			v.Required("title", t.Title)
			v.Required("owner", t.Owner)
			v.Check(t.Priority >= 0, "priority", "must not be negative")
			return v.Err()
		},
	}
}

func sampleTickets() []ticket {
	return []ticket{
		{ID: "t-1", Title: "Broken printer", Owner: "Ana", Priority: 2, Opened: NewDate(2024, 1, 10), Status: StatusPending},
		{ID: "t-2", Title: "VPN access", Owner: "Budi", Priority: 1, Opened: NewDate(2024, 2, 5), Status: StatusApproved},
		{ID: "t-3", Title: "New laptop", Owner: "ana", Priority: 3, Opened: NewDate(2024, 3, 1), Status: StatusRejected},
		{ID: "t-4", Title: "Printer toner", Owner: "Citra", Priority: 2, Status: StatusPending},
	}
}
