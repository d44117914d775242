package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT"                    env-default:"3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// RequestTimeout bounds every request, including the wait for a pooled connection.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" env-default:"5s"`
}

type DatabaseConfig struct {
	// DSN wins over the individual fields when set.
	DSN      string `env:"DB_DSN"`
	Host     string `env:"DB_HOST"     env-default:"localhost"`
	Port     int    `env:"DB_PORT"     env-default:"5432"`
	User     string `env:"DB_USER"     env-default:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"     env-default:"date_ideas_db"`
	SSLMode  string `env:"DB_SSLMODE"  env-default:"disable"`

	MaxConns          int32         `env:"DB_MAX_CONNS"           env-default:"10"`
	MinConns          int32         `env:"DB_MIN_CONNS"           env-default:"2"`
	MaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME"  env-default:"5m"`
	HealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" env-default:"30s"`
	AutoMigrate       bool          `env:"DB_AUTO_MIGRATE"        env-default:"false"`
}

type AppConfig struct {
	ServiceName string `env:"SERVICE_NAME" env-default:"date-ideas-api"`
	Environment string `env:"APP_ENV"      env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL"    env-default:"info"`
	// LogFormat is "json" or "text"; empty picks by environment.
	LogFormat string `env:"LOG_FORMAT"`
	Version   string `env:"APP_VERSION" env-default:"1.0.0"`
}

type CORSConfig struct {
	AllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string        `env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders string        `env:"CORS_ALLOWED_HEADERS" env-default:"Origin,Content-Type,X-Request-Id"`
	MaxAge         time.Duration `env:"CORS_MAX_AGE"         env-default:"12h"`
}

type RateLimitConfig struct {
	// RPS of 0 disables limiting.
	RPS   float64 `env:"RATE_LIMIT_RPS"   env-default:"0"`
	Burst int     `env:"RATE_LIMIT_BURST" env-default:"20"`
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// SplitList turns a comma separated env value into trimmed, non-empty items.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
