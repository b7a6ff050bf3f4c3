// Package purchase holds purchase-order line items raised by Finance against
// a sales order.
package purchase

import (
	"github.com/shopspring/decimal"

	"backoffice/records"
)

const Module = "purchase"

// POItem is one line of a purchase order. Total is derived from Qty and
// UnitPrice and is recomputed on every write.
type POItem struct {
	ID           string          `json:"id"`
	NoPO         string          `json:"noPO"`
	NoSO         string          `json:"noSO"`
	Supplier     string          `json:"supplier"`
	ItemName     string          `json:"itemName"`
	Qty          int             `json:"qty"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Total        decimal.Decimal `json:"total"`
	OrderDate    records.Date    `json:"orderDate"`
	DeliveryDate records.Date    `json:"deliveryDate"`
	Status       string          `json:"status"`
}

// LineTotal is Qty x UnitPrice.
func (p POItem) LineTotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Qty)))
}

func Schema() records.Schema[POItem] {
	return records.Schema[POItem]{
		Name:  Module,
		Title: "Purchase Order Items",
		Fields: []records.Field[POItem]{
			records.TextField("noPO", "No. PO", func(p POItem) string { return p.NoPO }),
			records.TextField("noSO", "No. SO", func(p POItem) string { return p.NoSO }),
			records.TextField("supplier", "Supplier", func(p POItem) string { return p.Supplier }),
			records.TextField("itemName", "Item", func(p POItem) string { return p.ItemName }),
			records.IntField("qty", "Qty", func(p POItem) int { return p.Qty }),
			records.TextField("unit", "Unit", func(p POItem) string { return p.Unit }),
			records.DecimalField("unitPrice", "Unit Price", func(p POItem) decimal.Decimal { return p.UnitPrice }),
			records.DecimalField("total", "Total", func(p POItem) decimal.Decimal { return p.Total }),
			records.DateField("orderDate", "Order Date", func(p POItem) records.Date { return p.OrderDate }),
			records.DateField("deliveryDate", "Delivery Date", func(p POItem) records.Date { return p.DeliveryDate }),
			records.TextField("status", "Status", func(p POItem) string { return p.Status }),
		},
		SearchFields:  []string{"noPO", "noSO", "supplier", "itemName"},
		DateField:     "orderDate",
		DefaultSort:   "orderDate",
		DefaultOrder:  records.OrderDesc,
		ID:            func(p POItem) string { return p.ID },
		SetID:         func(p *POItem, id string) { p.ID = id },
		Status:        func(p POItem) string { return p.Status },
		SetStatus:     func(p *POItem, st string) { p.Status = st },
		InitialStatus: records.StatusPending,
		Transitions:   records.PendingTransitions(),
		Normalize:     normalize,
		Validate:      validate,
	}
}

func normalize(p *POItem) {
	records.TrimSpace(&p.NoPO, &p.NoSO, &p.Supplier, &p.ItemName, &p.Unit)
	p.Total = p.LineTotal()
}

func validate(p POItem) error {
	v := records.NewValidator()
	v.Required("noPO", p.NoPO)
	v.Required("supplier", p.Supplier)
	v.Required("itemName", p.ItemName)
	v.Check(p.Qty > 0, "qty", "must be greater than zero")
	v.Required("unit", p.Unit)
	v.Positive("unitPrice", p.UnitPrice)
	v.RequiredDate("orderDate", p.OrderDate)
	v.DateOrder("orderDate", p.OrderDate, "deliveryDate", p.DeliveryDate)
	return v.Err()
}
