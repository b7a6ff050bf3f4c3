package infra

import (
	"context"
	"fmt"
	"os"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const defaultImage = "postgres:16-alpine"

// PGContainer is nil-safe: a zero value stands for a database the run does not own.
type PGContainer struct {
	C *postgres.PostgresContainer
}

// StartPostgres16 returns a DSN for the stress database. overrideDSN, then
// STRESS_TEST_PG_DSN, are reused as-is; otherwise a container is started from
// STRESS_TEST_PG_IMAGE (default postgres:16-alpine).
func StartPostgres16(ctx context.Context, overrideDSN string) (*PGContainer, string, error) {
	for _, dsn := range []string{overrideDSN, os.Getenv("STRESS_TEST_PG_DSN")} {
		if dsn != "" {
			return &PGContainer{}, dsn, nil
		}
	}

	image := os.Getenv("STRESS_TEST_PG_IMAGE")
	if image == "" {
		image = defaultImage
	}

	pgC, err := postgres.Run(ctx, image,
		postgres.WithDatabase("backoffice"),
		postgres.WithUsername("backoffice"),
		postgres.WithPassword("backoffice"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("run %s: %w", image, err)
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, "", fmt.Errorf("connection string: %w", err)
	}
	return &PGContainer{C: pgC}, dsn, nil
}

func (p *PGContainer) Terminate(ctx context.Context) error {
	if p == nil || p.C == nil {
		return nil
	}
	return p.C.Terminate(ctx)
}
