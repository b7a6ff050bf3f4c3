package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"backoffice/api"
	"backoffice/app"
	"backoffice/auth"
	"backoffice/authz"
	"backoffice/config"
	"backoffice/db"
	"backoffice/logging"
	"backoffice/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var pool *pgxpool.Pool
	if cfg.UsePostgres() {
		p, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return fmt.Errorf("bootstrap database pool: %w", err)
		}
		defer p.Close()
		applied, err := db.Migrate(ctx, p, migrations.FS)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied", zap.Strings("files", applied))
		pool = p
	} else {
		logger.Warn("DATABASE_URL is empty; records are kept in memory")
	}

	handler, err := buildHandler(ctx, cfg, pool, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildHandler assembles services, seeds fixtures and bootstraps the admin
// account. A nil pool keeps everything in memory.
func buildHandler(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (http.Handler, error) {
	services := app.Build(pool, logger)
	if cfg.SeedData {
		counts, err := services.Seed(ctx)
		if err != nil {
			return nil, err
		}
		for module, n := range counts {
			if n > 0 {
				logger.Info("seeded fixtures", zap.String("module", module), zap.Int("records", n))
			}
		}
	}

	var users auth.Repository
	if pool != nil {
		users = auth.NewRepository(pool)
	} else {
		users = auth.NewMemoryRepository()
	}
	authService := auth.NewService(users, cfg.JWTSecret).WithTokenTTL(cfg.TokenTTL)

	if cfg.Admin.Email != "" {
		user, created, err := authService.EnsureUser(ctx, auth.RegisterRequest{
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
			FullName: cfg.Admin.Name,
			Role:     auth.RoleAdmin,
		})
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			logger.Info("admin account created", zap.String("email", user.Email))
		}
	}

	mode, err := authz.ParseMode(cfg.AuthzMode, cfg.AuthzUnsafeDisabled)
	if err != nil {
		return nil, err
	}
	authorizer, err := authz.NewAuthorizer(mode, logger)
	if err != nil {
		return nil, fmt.Errorf("build authorizer: %w", err)
	}

	server := api.NewServer(api.Deps{
		Auth:        authService,
		Authz:       authorizer,
		Departments: services.Departments,
		SalesOrders: services.SalesOrders,
		QHSE:        services.QHSE,
		Modules:     services.Modules(),
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})
	return server.Handler(), nil
}
