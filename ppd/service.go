package ppd

import (
	_ "embed"

	"github.com/shopspring/decimal"

	"backoffice/records"
)

//go:embed seed.yaml
var seedData []byte

func NewService(store records.Store[Request]) *records.Service[Request] {
	return records.NewService(Schema(), store)
}

func Fixtures() ([]Request, error) {
	return records.LoadSeed[Request](seedData)
}

// Totals sums every request amount and, separately, the paid ones.
func Totals(reqs []Request) (requested, disbursed decimal.Decimal) {
	requested, disbursed = decimal.Zero, decimal.Zero
	for _, r := range reqs {
		requested = requested.Add(r.Amount)
		if r.Status == StatusPaid {
			disbursed = disbursed.Add(r.Amount)
		}
	}
	return requested, disbursed
}
