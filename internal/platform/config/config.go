// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A '.env' file in the
working directory is loaded first when present (development convenience).

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, tokens) via constructors.
  - Fail Fast: A missing or placeholder session secret aborts startup in every environment.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

// knownPlaceholderSecrets are values copied from samples and tutorials.
var knownPlaceholderSecrets = []string{
	"development-secret-key",
	"changeme",
	"change-me",
	"secret",
	"your-secret-key",
	"nextauth-secret",
}

// # Configuration Schema

// Config holds all runtime configuration for the LegitExchange server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Session signing and lifetime
	SessionSecret       string        `env:"SESSION_SECRET,required"`
	SessionTTL          time.Duration `env:"SESSION_TTL"           envDefault:"720h"`
	SessionUpdateAge    time.Duration `env:"SESSION_UPDATE_AGE"    envDefault:"24h"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`

	// Password hashing
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// Relational Database (PostgreSQL). Empty selects the in-memory identity store.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath overrides the embedded SQL migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis). Empty selects the in-memory sign-in throttle.
	RedisURL string `env:"REDIS_URL"`

	// Sign-in throttle
	SignInMaxAttempts int           `env:"SIGNIN_MAX_ATTEMPTS" envDefault:"5"`
	SignInWindow      time.Duration `env:"SIGNIN_WINDOW"       envDefault:"15m"`

	// Development seed data
	SeedDemoUser bool `env:"SEED_DEMO_USER" envDefault:"false"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"legitexchange.com"`
}

// # Configuration Loading

// Load reads an optional .env file, parses environment variables into a
// [Config] struct and validates it.
func Load() (*Config, error) {

	// A missing .env file is normal outside development.
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("config: failed to load .env file: %w", err)
		}
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the hardening rules that env tags cannot express.
func (c *Config) Validate() error {
	secret := strings.TrimSpace(c.SessionSecret)
	if secret == "" {
		return errors.New("config: SESSION_SECRET is required")
	}
	if len(secret) < sec.MinSecretLength {
		return fmt.Errorf("config: SESSION_SECRET must be at least %d bytes", sec.MinSecretLength)
	}
	for _, placeholder := range knownPlaceholderSecrets {
		if strings.EqualFold(secret, placeholder) || strings.HasPrefix(strings.ToLower(secret), placeholder) {
			return errors.New("config: SESSION_SECRET is a placeholder value")
		}
	}

	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.SessionUpdateAge < 0 || c.SessionUpdateAge >= c.SessionTTL {
		return errors.New("config: SESSION_UPDATE_AGE must be between 0 and SESSION_TTL")
	}

	if c.BcryptCost < sec.MinPasswordCost || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and 31", sec.MinPasswordCost)
	}

	if c.SignInMaxAttempts < 1 || c.SignInWindow <= 0 {
		return errors.New("config: SIGNIN_MAX_ATTEMPTS and SIGNIN_WINDOW must be positive")
	}

	if c.IsProduction() && c.SeedDemoUser {
		return errors.New("config: SEED_DEMO_USER is not allowed in production")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesPostgres reports whether a PostgreSQL identity store is configured.
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// UsesRedis reports whether a Redis sign-in throttle is configured.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}
