package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is resolved once at startup and never mutated afterwards.
type Config struct {
	HTTPAddr string `env:"ACCESSIT_HTTP_ADDR" env-default:":8080"`
	Env      string `env:"ACCESSIT_ENV" env-default:"dev"` // "dev" | "prod"

	// StoreBackend selects the persistence backend:
	// "supabase" (production), "sqlite" (self-hosted), "memory" (dev).
	StoreBackend string `env:"ACCESSIT_STORE_BACKEND" env-default:"supabase"`

	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_KEY"`

	DBPath string `env:"ACCESSIT_DB_PATH" env-default:"./data/accessit.db"`

	// UnlockURL is the door actuator endpoint.  Empty disables the
	// unlock command entirely.
	UnlockURL string `env:"ACCESSIT_UNLOCK_URL"`

	// StoreTimeout bounds every store and actuator call.
	StoreTimeout time.Duration `env:"ACCESSIT_STORE_TIMEOUT" env-default:"5s"`

	// DefaultSchedule is applied to users with no schedule of their own.
	DefaultSchedule string `env:"ACCESSIT_DEFAULT_SCHEDULE" env-default:"08:00-18:00"`

	// Access-log retention.  0 = keep forever.
	LogRetentionDays   int `env:"ACCESSIT_LOG_RETENTION_DAYS" env-default:"0"`
	PruneIntervalHours int `env:"ACCESSIT_PRUNE_INTERVAL_HOURS" env-default:"6"`
}

// Load reads .env (when present) and then the process environment.
func Load() (Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}

	switch cfg.StoreBackend {
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			return Config{}, fmt.Errorf("store backend %q requires SUPABASE_URL and SUPABASE_SERVICE_KEY", cfg.StoreBackend)
		}
	case "sqlite", "memory":
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return cfg, nil
}

// MustLoad is Load for composition roots that cannot continue without
// configuration.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "accessit: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
