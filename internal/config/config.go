// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/time/rate"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"8080"`

	// Security
	SecretKey          string        `env:"SECRET_KEY,notEmpty"`
	AccessTokenExpires time.Duration `env:"ACCESS_TOKEN_EXPIRES" envDefault:"1h"`
	CookieMaxAge       time.Duration `env:"COOKIE_MAX_AGE" envDefault:"24h"`
	AllowedOrigins     []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:8080,http://localhost:3000"`

	// Database
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,notEmpty"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresDatabase string `env:"POSTGRES_DATABASE" envDefault:"chatrooms"`

	// File storage
	FSRoot string `env:"FS_ROOT" envDefault:"uploads"`

	// Rate limiting, requests per second per client
	RateLimitAPI    rate.Limit `env:"RATE_LIMIT_API" envDefault:"10"`
	RateLimitWS     rate.Limit `env:"RATE_LIMIT_WS" envDefault:"5"`
	RateLimitStrict rate.Limit `env:"RATE_LIMIT_STRICT" envDefault:"2"`

	// Logging. Options: debug, info, warn, error, silent
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return &cfg, nil
}

// DatabaseURL builds the postgres connection string.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDatabase,
	}
	return u.String()
}
