// Package salesorder joins the records that reference one sales order
// number. The reference is a plain string; nothing enforces that the order
// exists.
package salesorder

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"backoffice/csi"
	"backoffice/ppd"
	"backoffice/purchase"
	"backoffice/records"
)

// Overview is everything filed against one noSO.
type Overview struct {
	NoSO           string            `json:"noSO"`
	PurchaseItems  []purchase.POItem `json:"purchaseItems"`
	Disbursements  []ppd.Request     `json:"disbursements"`
	Surveys        []csi.Survey      `json:"surveys"`
	PurchaseTotal  decimal.Decimal   `json:"purchaseTotal"`
	RequestedTotal decimal.Decimal   `json:"requestedTotal"`
	DisbursedTotal decimal.Decimal   `json:"disbursedTotal"`
}

type Service struct {
	purchases *records.Service[purchase.POItem]
	ppds      *records.Service[ppd.Request]
	surveys   *records.Service[csi.Survey]
}

func NewService(purchases *records.Service[purchase.POItem], ppds *records.Service[ppd.Request], surveys *records.Service[csi.Survey]) *Service {
	return &Service{purchases: purchases, ppds: ppds, surveys: surveys}
}

// Lookup matches noSO exactly, ignoring case. An unknown number yields an
// empty overview.
func (s *Service) Lookup(ctx context.Context, noSO string) (Overview, error) {
	noSO = strings.TrimSpace(noSO)
	q := records.Query{Exact: map[string]string{"noSO": noSO}}

	items, err := s.purchases.Select(ctx, q)
	if err != nil {
		return Overview{}, fmt.Errorf("salesorder: purchase items: %w", err)
	}
	reqs, err := s.ppds.Select(ctx, q)
	if err != nil {
		return Overview{}, fmt.Errorf("salesorder: disbursements: %w", err)
	}
	surveys, err := s.surveys.Select(ctx, q)
	if err != nil {
		return Overview{}, fmt.Errorf("salesorder: surveys: %w", err)
	}

	requested, disbursed := ppd.Totals(reqs)
	return Overview{
		NoSO:           noSO,
		PurchaseItems:  items,
		Disbursements:  reqs,
		Surveys:        surveys,
		PurchaseTotal:  purchase.SumTotals(items),
		RequestedTotal: requested,
		DisbursedTotal: disbursed,
	}, nil
}
