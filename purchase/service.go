package purchase

import (
	_ "embed"

	"github.com/shopspring/decimal"

	"backoffice/records"
)

//go:embed seed.yaml
var seedData []byte

func NewService(store records.Store[POItem]) *records.Service[POItem] {
	return records.NewService(Schema(), store)
}

// Fixtures returns the seed items with their totals computed.
func Fixtures() ([]POItem, error) {
	items, err := records.LoadSeed[POItem](seedData)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Total = items[i].LineTotal()
	}
	return items, nil
}

// SumTotals adds up the line totals of items.
func SumTotals(items []POItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Total)
	}
	return sum
}
