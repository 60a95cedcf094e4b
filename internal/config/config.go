package config

import (
	"fmt"
	"time"

	"storefront/pkg/config"
	"storefront/pkg/database"
)

// Config holds every runtime setting for the storefront server. Values are
// read from the environment with sane defaults for local development.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"storefront"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"storefront"`
	PostgresSSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	PoolMaxConns        int32         `env:"POSTGRES_POOL_MAX_CONNS" envDefault:"10"`
	PoolMinConns        int32         `env:"POSTGRES_POOL_MIN_CONNS" envDefault:"2"`
	PoolMaxConnLifetime time.Duration `env:"POSTGRES_POOL_MAX_CONN_LIFETIME" envDefault:"30m"`
	PoolMaxConnIdleTime time.Duration `env:"POSTGRES_POOL_MAX_CONN_IDLE_TIME" envDefault:"5m"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"720h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load parses the environment into a Config and validates settings that
// must not ship with their development defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if cfg.Environment != "development" && cfg.JWTSecret == "dev-secret-change-me" {
		return nil, fmt.Errorf("config: JWT_SECRET must be set outside development")
	}
	if cfg.JWTExpiry <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRY must be positive")
	}
	return &cfg, nil
}

// Postgres builds the connection settings for the database pool.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPassword,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSLMode,
		MaxConns:        c.PoolMaxConns,
		MinConns:        c.PoolMinConns,
		MaxConnLifetime: c.PoolMaxConnLifetime,
		MaxConnIdleTime: c.PoolMaxConnIdleTime,
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
