package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Resolution time modes for dashboard stats.
const (
	ResolutionComputed = "computed"
	ResolutionFixed    = "fixed"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	SQLite       SQLiteConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Cases        CasesConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"housing-case-service"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// StoreConfig selects the case store backend.
type StoreConfig struct {
	Backend string `env:"STORE_BACKEND" envDefault:"memory"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir  string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// SQLiteConfig holds the database file location.
type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" envDefault:"data/cases.db"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr          string `env:"REDIS_ADDR"`
	Password      string `env:"REDIS_PASSWORD"`
	DB            int    `env:"REDIS_DB" envDefault:"0"`
	EventsChannel string `env:"REDIS_EVENTS_CHANNEL" envDefault:"cases.events"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	AccessTokenTTLMinutes int    `env:"AUTH_ACCESS_TOKEN_TTL_MINUTES" envDefault:"60"`
	BcryptCost            int    `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	AdminPassword         string `env:"AUTH_SEED_ADMIN_PASSWORD" envDefault:"admin-dev-password"`
	AgentPassword         string `env:"AUTH_SEED_AGENT_PASSWORD" envDefault:"agent-dev-password"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string `env:"NOTIFY_EMAIL_FROM" envDefault:"noreply@housing.gov"`
	WebhookURL string `env:"NOTIFY_WEBHOOK_URL"`
}

// CasesConfig tunes the case access layer.
type CasesConfig struct {
	NumberPrefix          string        `env:"CASES_NUMBER_PREFIX" envDefault:"HC-2024-"`
	NumberWidth           int           `env:"CASES_NUMBER_WIDTH" envDefault:"3"`
	Seed                  bool          `env:"CASES_SEED" envDefault:"true"`
	SimulatedLatency      time.Duration `env:"CASES_SIMULATED_LATENCY" envDefault:"500ms"`
	DefaultPageSize       int           `env:"CASES_DEFAULT_PAGE_SIZE" envDefault:"10"`
	MaxPageSize           int           `env:"CASES_MAX_PAGE_SIZE" envDefault:"100"`
	ResolutionMode        string        `env:"CASES_RESOLUTION_MODE" envDefault:"computed"`
	FixedResolutionDays   float64       `env:"CASES_FIXED_RESOLUTION_DAYS" envDefault:"14"`
	ActivityHistoryLength int           `env:"CASES_ACTIVITY_HISTORY" envDefault:"500"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("config: STORE_BACKEND=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Cases.ResolutionMode {
	case ResolutionComputed, ResolutionFixed:
	default:
		return fmt.Errorf("config: unknown CASES_RESOLUTION_MODE %q", c.Cases.ResolutionMode)
	}
	if c.App.Env == "production" && c.Auth.JWTSecret == "dev-secret" {
		return fmt.Errorf("config: AUTH_JWT_SECRET must be set in production")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}
