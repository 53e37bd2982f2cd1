// Package config handles configuration for the server component. All settings
// come from the environment, with an optional .env overlay for local runs.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environment tiers. Anything other than EnvProduction behaves as a
// development-like deployment (eager health check, schema migrations on boot).
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds runtime settings for the auth server.
//
// Fields:
//   - Addr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Required.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Required.
//   - Environment: deployment tier, "development" or "production".
//   - SessionMaxAge: maximum lifetime of an issued session token.
//   - MaxRetries / RetryDelay: bounds for the store reconnect loop.
type Config struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
	DatabaseDSN     string        `env:"DATABASE_URL"`
	SecretKey       string        `env:"AUTH_SECRET"`
	Environment     string        `env:"APP_ENV" envDefault:"development"`
	CORSOrigin      string        `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	CookieName      string        `env:"COOKIE_NAME" envDefault:"authgate_session"`
	SessionMaxAge   time.Duration `env:"SESSION_MAX_AGE" envDefault:"720h"`
	MaxRetries      int           `env:"DB_MAX_RETRIES" envDefault:"3"`
	RetryDelay      time.Duration `env:"DB_RETRY_DELAY" envDefault:"2s"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"8s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig builds a Config from the process environment. A .env file in the
// working directory is loaded first if present; real environment variables win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config parse error: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the server runs in a production-like tier.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
