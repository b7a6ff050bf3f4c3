// Package config reads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	DatabaseURL string
	DBMaxConns  int32

	JWTSecret string
	TokenTTL  time.Duration

	AuthzMode           string
	AuthzUnsafeDisabled bool

	LogLevel       string
	LogDevelopment bool

	SeedData bool
	Admin    AdminConfig
}

// AdminConfig is the account bootstrapped on startup when Email is set.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// UsePostgres reports whether records should live in PostgreSQL.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// Load reads ENV_FILE (default .env) when present, then the environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", envFile, err)
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from getenv without touching files.
func FromLookup(getenv func(string) string) (*Config, error) {
	r := reader{getenv: getenv}

	cfg := &Config{
		HTTPAddr:        r.str("HTTP_ADDR", ":8080"),
		ShutdownTimeout: r.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:     r.list("CORS_ORIGINS", []string{"*"}),

		DatabaseURL: r.str("DATABASE_URL", ""),
		DBMaxConns:  r.int32("DB_MAX_CONNS", 10),

		JWTSecret: r.str("JWT_SECRET", ""),
		TokenTTL:  r.duration("TOKEN_TTL", 24*time.Hour),

		AuthzMode:           r.str("AUTHZ_MODE", "enforce"),
		AuthzUnsafeDisabled: r.str("AUTHZ_UNSAFE_ALLOW_DISABLED", "") == "1",

		LogLevel:       r.str("LOG_LEVEL", "info"),
		LogDevelopment: r.boolean("LOG_DEVELOPMENT", false),

		SeedData: r.boolean("SEED_DATA", true),
		Admin: AdminConfig{
			Email:    r.str("ADMIN_EMAIL", ""),
			Password: r.str("ADMIN_PASSWORD", ""),
			Name:     r.str("ADMIN_NAME", "Administrator"),
		},
	}

	if cfg.JWTSecret == "" {
		r.errs = append(r.errs, errors.New("JWT_SECRET is required"))
	}
	if cfg.DBMaxConns <= 0 {
		r.errs = append(r.errs, errors.New("DB_MAX_CONNS must be positive"))
	}
	if cfg.TokenTTL <= 0 {
		r.errs = append(r.errs, errors.New("TOKEN_TTL must be positive"))
	}
	if cfg.Admin.Email != "" && cfg.Admin.Password == "" {
		r.errs = append(r.errs, errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set"))
	}

	if len(r.errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(r.errs...))
	}
	return cfg, nil
}

type reader struct {
	getenv func(string) string
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) integer(key string, def int) int {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return def
	}
	return n
}

func (r *reader) int32(key string, def int32) int32 {
	n := r.integer(key, int(def))
	if n > math.MaxInt32 || n < math.MinInt32 {
		r.errs = append(r.errs, fmt.Errorf("%s: %d is out of range", key, n))
		return def
	}
	return int32(n)
}

func (r *reader) boolean(key string, def bool) bool {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return def
	}
	return d
}

func (r *reader) list(key string, def []string) []string {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
