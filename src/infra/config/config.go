// Package config handles application configuration via environment variables.
// Values are parsed with kelseyhightower/envconfig; an optional .env file in the
// working directory is loaded first with joho/godotenv.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all application configuration.
// Values are loaded from environment variables with the prefix "APP".
// Example: APP_PORT=8080, APP_LOG_LEVEL=debug
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	Log      LogConfig
	Session  SessionConfig
	Auth     AuthConfig
	Feed     FeedConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// Host is the HTTP server host (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"jokeshare"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`

	// Migrate applies pending schema migrations on startup (default: true)
	Migrate bool `envconfig:"DB_MIGRATE" default:"true"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is "postgres" or "memory" (default: postgres)
	Driver string `envconfig:"STORE" default:"postgres"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: json, text, plain (default: plain)
	Format string `envconfig:"LOG_FORMAT" default:"plain"`
}

// SessionConfig holds cookie session settings.
type SessionConfig struct {
	CookieName string        `envconfig:"SESSION_COOKIE" default:"RJ_session"`
	Secret     string        `envconfig:"SESSION_SECRET" required:"true"`
	MaxAge     time.Duration `envconfig:"SESSION_MAX_AGE" default:"720h"`

	// Secure marks the cookie HTTPS-only. Enable it in production.
	Secure bool `envconfig:"SESSION_SECURE" default:"false"`
}

// AuthConfig holds password hashing settings.
type AuthConfig struct {
	BcryptCost int `envconfig:"BCRYPT_COST" default:"10"`
}

// FeedConfig holds RSS channel metadata.
type FeedConfig struct {
	Title       string `envconfig:"FEED_TITLE" default:"Remix Jokes"`
	Description string `envconfig:"FEED_DESCRIPTION" default:"Some funny jokes"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Process()
}

// Process reads configuration from environment variables only.
func Process() (*Config, error) {
	var cfg Config

	// Each section is processed on its own so variables stay flat:
	// APP_PORT rather than APP_SERVER_PORT.
	sections := []struct {
		name   string
		target any
	}{
		{"server", &cfg.Server},
		{"database", &cfg.Database},
		{"store", &cfg.Store},
		{"log", &cfg.Log},
		{"session", &cfg.Session},
		{"auth", &cfg.Auth},
		{"feed", &cfg.Feed},
	}
	for _, s := range sections {
		if err := envconfig.Process("APP", s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
	}

	switch cfg.Store.Driver {
	case StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return &cfg, nil
}
