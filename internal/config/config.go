package config

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Retry     RetryConfig
	Cleanup   CleanupConfig
	Checkout  CheckoutConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"localhost"`
	Env  string `envconfig:"ENV" default:"development"`

	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

type DatabaseConfig struct {
	URL      string `envconfig:"DATABASE_URL"` // Full database URL
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME" default:"concert_ticketing"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

type RedisConfig struct {
	Endpoint string `envconfig:"REDIS_ENDPOINT" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// RetryConfig bounds the ticket ledger's transient-failure retries.
type RetryConfig struct {
	MaxRetries   int `envconfig:"RPOL_CONNECT_RETRY" default:"3"`
	BackoffDelta int `envconfig:"RPOL_BACKOFF_DELTA" default:"1500"` // milliseconds
}

type CleanupConfig struct {
	Enabled          bool     `envconfig:"DATABASE_CLEANUP_ENABLED" default:"false"`
	BatchSize        int      `envconfig:"DATABASE_CLEANUP_RECORD_COUNT" default:"1000"`
	ThresholdMinutes int      `envconfig:"DATABASE_CLEANUP_THRESHOLD_MINUTES" default:"30"`
	Schedule         string   `envconfig:"DATABASE_CLEANUP_SCHEDULE" default:"@every 1m"`
	Tables           []string `envconfig:"DATABASE_CLEANUP_TABLES" default:"tickets,users"`
}

type CheckoutConfig struct {
	MaxTicketsPerPurchase int           `envconfig:"MAX_TICKETS_PER_PURCHASE" default:"10"`
	LockTTL               time.Duration `envconfig:"CHECKOUT_LOCK_TTL" default:"30s"`

	// Atomic runs ticket emission and order creation in one transaction.
	Atomic bool `envconfig:"CHECKOUT_ATOMIC" default:"true"`

	RateLimit       int           `envconfig:"CHECKOUT_RATE_LIMIT" default:"5"`
	RateLimitWindow time.Duration `envconfig:"CHECKOUT_RATE_LIMIT_WINDOW" default:"1m"`
}

// EventsConfig configures the order event publisher. An empty URL disables it.
type EventsConfig struct {
	RabbitURL     string `envconfig:"RABBIT_URL"`
	OrderExchange string `envconfig:"ORDER_EXCHANGE" default:"order.exchange"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"concert-ticketing-api"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.Wrap(err, "failed to process environment")
	}

	if config.Database.URL != "" {
		config.Database = parseDatabaseURL(config.Database)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// RetryBackoff returns the backoff ceiling between ledger retries.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Retry.BackoffDelta) * time.Millisecond
}

func (c *Config) validate() error {
	if c.Retry.MaxRetries < 0 {
		return errors.New("RPOL_CONNECT_RETRY must not be negative")
	}
	if c.Cleanup.BatchSize <= 0 {
		return errors.New("DATABASE_CLEANUP_RECORD_COUNT must be positive")
	}
	if c.Cleanup.ThresholdMinutes < 0 {
		return errors.New("DATABASE_CLEANUP_THRESHOLD_MINUTES must not be negative")
	}
	if c.Checkout.MaxTicketsPerPurchase <= 0 {
		return errors.New("MAX_TICKETS_PER_PURCHASE must be positive")
	}
	if c.Checkout.RateLimit < 0 {
		return errors.New("CHECKOUT_RATE_LIMIT must not be negative")
	}
	return nil
}

// parseDatabaseURL fills the individual connection fields from DATABASE_URL,
// keeping pool settings untouched.
func parseDatabaseURL(config DatabaseConfig) DatabaseConfig {
	u, err := url.Parse(config.URL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}
