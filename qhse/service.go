package qhse

import (
	"context"
	_ "embed"
	"time"

	"backoffice/records"
)

//go:embed seed.yaml
var seedData []byte

func NewService(store records.Store[Personnel]) *records.Service[Personnel] {
	return records.NewService(Schema(), store)
}

func Fixtures() ([]Personnel, error) {
	return records.LoadSeed[Personnel](seedData)
}

// Expiring lists active personnel whose certification expires within the
// window [now, now+within], soonest first.
func Expiring(ctx context.Context, svc *records.Service[Personnel], now time.Time, within time.Duration) ([]Personnel, error) {
	from := records.DateOf(now)
	to := records.DateOf(now.Add(within))

	return svc.Select(ctx, records.Query{
		Status:    StatusActive,
		From:      from,
		To:        to,
		SortKey:   "certificationExpiry",
		SortOrder: records.OrderAsc,
	})
}
