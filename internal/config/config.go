package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port        int      `env:"PORT" envDefault:"8080"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// HTTP client
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	// Resilience
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"3"`
	InitialBackoff time.Duration `env:"INITIAL_BACKOFF" envDefault:"100ms"`
	MaxConcurrency int           `env:"MAX_CONCURRENCY" envDefault:"50"`

	// Cache
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	RedisAddr string        `env:"REDIS_ADDR"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`

	// Observability
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`

	// Persistence: supabase (PostgREST + GoTrue), postgres or sqlite (GORM).
	StoreDriver string `env:"STORE_DRIVER" envDefault:"supabase"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"smartpresence.db"`

	// Supabase
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseAnonKey    string `env:"SUPABASE_ANON_KEY"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseJWTSecret  string `env:"SUPABASE_JWT_SECRET"`

	// JWT for the local auth provider (sql drivers)
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"smartpresence-dev-secret-change-me"`
	JWTAccessTTL time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`

	// Contract archive (S3-compatible; Supabase Storage exposes an S3 endpoint)
	S3Bucket   string `env:"S3_BUCKET"`
	S3Region   string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint string `env:"S3_ENDPOINT"`
	S3Key      string `env:"S3_KEY"`
	S3Secret   string `env:"S3_SECRET"`

	// Business contacts
	AdminWhatsApp string `env:"ADMIN_WHATSAPP" envDefault:"258840000000"`
	PaypayName    string `env:"PAYPAY_NAME" envDefault:"SmartPresence, Lda"`
	PaypayNumber  string `env:"PAYPAY_NUMBER" envDefault:"840000000"`

	// Analytics writes never block the caller for longer than this.
	AnalyticsTimeout time.Duration `env:"ANALYTICS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("config: SUPABASE_URL is required when STORE_DRIVER=%s", DriverSupabase)
		}
		if c.SupabaseJWTSecret == "" {
			return fmt.Errorf("config: SUPABASE_JWT_SECRET is required when STORE_DRIVER=%s", DriverSupabase)
		}
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("config: DATABASE_DSN is required when STORE_DRIVER=%s", c.StoreDriver)
		}
	default:
		return fmt.Errorf("config: unsupported STORE_DRIVER %q (supported: supabase, postgres, sqlite)", c.StoreDriver)
	}
	return nil
}

// ArchiveEnabled reports whether exported contracts are copied to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}
