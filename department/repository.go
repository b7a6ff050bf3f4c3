package department

import (
	"context"
	"errors"
	"strings"

	"backoffice/csi"
	"backoffice/ppd"
	"backoffice/purchase"
	"backoffice/qhse"
	"backoffice/resign"
	"backoffice/spk"
)

// ErrNotFound signals that the department id is unknown.
var ErrNotFound = errors.New("department: not found")

const (
	HR        = "hr"
	Finance   = "finance"
	QHSE      = "qhse"
	Marketing = "marketing"
)

// Reader abstracts catalog lookups for the service.
type Reader interface {
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context) ([]Department, error)
}

// Catalog is the fixed in-process department list.
type Catalog struct {
	items []Department
}

// NewCatalog returns the standard catalog.
func NewCatalog() *Catalog {
	return &Catalog{items: []Department{
		{ID: HR, Name: "Human Resources", Modules: []string{spk.Module, resign.Module}},
		{ID: Finance, Name: "Finance", Modules: []string{purchase.Module, ppd.Module}},
		{ID: QHSE, Name: "Quality, Health, Safety & Environment", Modules: []string{qhse.Module}},
		{ID: Marketing, Name: "Marketing", Modules: []string{csi.Module}},
	}}
}

func (c *Catalog) GetByID(_ context.Context, id string) (Department, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, d := range c.items {
		if d.ID == id {
			return clone(d), nil
		}
	}
	return Department{}, ErrNotFound
}

func (c *Catalog) List(_ context.Context) ([]Department, error) {
	out := make([]Department, 0, len(c.items))
	for _, d := range c.items {
		out = append(out, clone(d))
	}
	return out, nil
}

func clone(d Department) Department {
	d.Modules = append([]string(nil), d.Modules...)
	return d
}
