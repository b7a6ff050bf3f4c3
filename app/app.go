// Package app wires every record module onto one storage backend.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"backoffice/api"
	"backoffice/csi"
	"backoffice/department"
	"backoffice/ppd"
	"backoffice/purchase"
	"backoffice/qhse"
	"backoffice/records"
	"backoffice/resign"
	"backoffice/salesorder"
	"backoffice/spk"
)

// Services holds one service per module plus the cross-module views.
type Services struct {
	SPK      *records.Service[spk.SPK]
	Resign   *records.Service[resign.Request]
	Purchase *records.Service[purchase.POItem]
	PPD      *records.Service[ppd.Request]
	CSI      *records.Service[csi.Survey]
	QHSE     *records.Service[qhse.Personnel]

	SalesOrders *salesorder.Service
	Departments *department.Service
}

// Build creates the services. A nil pool keeps records in memory.
func Build(pool *pgxpool.Pool, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Services{
		SPK:      spk.NewService(storeFor(pool, spk.Schema())).WithLogger(logger),
		Resign:   resign.NewService(storeFor(pool, resign.Schema())).WithLogger(logger),
		Purchase: purchase.NewService(storeFor(pool, purchase.Schema())).WithLogger(logger),
		PPD:      ppd.NewService(storeFor(pool, ppd.Schema())).WithLogger(logger),
		CSI:      csi.NewService(storeFor(pool, csi.Schema())).WithLogger(logger),
		QHSE:     qhse.NewService(storeFor(pool, qhse.Schema())).WithLogger(logger),

		Departments: department.NewService(department.NewCatalog()),
	}
	s.SalesOrders = salesorder.NewService(s.Purchase, s.PPD, s.CSI)
	return s
}

func storeFor[T any](pool *pgxpool.Pool, schema records.Schema[T]) records.Store[T] {
	if pool == nil {
		return records.NewMemoryStore(schema)
	}
	return records.NewPGStore(pool, schema)
}

// Modules lists the HTTP-mounted dashboards.
func (s *Services) Modules() []api.Module {
	return []api.Module{
		api.Resource(s.SPK),
		api.Resource(s.Resign),
		api.Resource(s.Purchase),
		api.Resource(s.PPD),
		api.Resource(s.CSI),
		api.Resource(s.QHSE),
	}
}

// Seed loads the bundled fixtures into every empty module and returns how
// many records were inserted per module.
func (s *Services) Seed(ctx context.Context) (map[string]int, error) {
	g, ctx := errgroup.WithContext(ctx)
	counts := make([]int, 6)

	g.Go(func() (err error) { counts[0], err = seed(ctx, s.SPK, spk.Fixtures); return })
	g.Go(func() (err error) { counts[1], err = seed(ctx, s.Resign, resign.Fixtures); return })
	g.Go(func() (err error) { counts[2], err = seed(ctx, s.Purchase, purchase.Fixtures); return })
	g.Go(func() (err error) { counts[3], err = seed(ctx, s.PPD, ppd.Fixtures); return })
	g.Go(func() (err error) { counts[4], err = seed(ctx, s.CSI, csi.Fixtures); return })
	g.Go(func() (err error) { counts[5], err = seed(ctx, s.QHSE, qhse.Fixtures); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	names := []string{spk.Module, resign.Module, purchase.Module, ppd.Module, csi.Module, qhse.Module}
	out := make(map[string]int, len(names))
	for i, name := range names {
		out[name] = counts[i]
	}
	return out, nil
}

func seed[T any](ctx context.Context, svc *records.Service[T], fixtures func() ([]T, error)) (int, error) {
	recs, err := fixtures()
	if err != nil {
		return 0, fmt.Errorf("app: load %s fixtures: %w", svc.Schema().Name, err)
	}
	n, err := svc.Seed(ctx, recs)
	if err != nil {
		return 0, fmt.Errorf("app: seed %s: %w", svc.Schema().Name, err)
	}
	return n, nil
}
