// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         int    `env:"PORT"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE"`
	BaseURL      string `env:"BASE_URL"`

	// Rate limiting for the action endpoint
	RateLimitCapacity     float64 `env:"RATE_LIMIT_CAPACITY"`
	RateLimitRefillPerSec float64 `env:"RATE_LIMIT_REFILL_PER_SEC"`

	// Secret for hashing anonymous actor IPs (prefer env)
	IPHashSalt string `env:"IP_HASH_SALT"`
}

// ParseFlags validates flags and fills the configuration.
// CLI flags take precedence over environment variables; a .env file is
// loaded first if present.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Best effort; a missing .env file is not an error
	_ = godotenv.Load()

	fs := flag.NewFlagSet("tsukkomi", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "b", "", "Public base URL")

	// Rate limiting
	fs.Float64Var(&cfg.RateLimitCapacity, "rate-capacity", 0, "Token bucket capacity")
	fs.Float64Var(&cfg.RateLimitRefillPerSec, "rate-refill", 0, "Token refill per second")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "IP hash salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables for anything the flags left unset
	var envCfg Config
	if err := env.Parse(&envCfg); err != nil {
		return Config{}, err
	}
	if cfg.Port == 0 {
		cfg.Port = envCfg.Port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = envCfg.DatabaseURL
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envCfg.DatabaseType
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = envCfg.BaseURL
	}
	if cfg.RateLimitCapacity == 0 {
		cfg.RateLimitCapacity = envCfg.RateLimitCapacity
	}
	if cfg.RateLimitRefillPerSec == 0 {
		cfg.RateLimitRefillPerSec = envCfg.RateLimitRefillPerSec
	}
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = envCfg.IPHashSalt
	}

	// Defaults
	if cfg.Port == 0 {
		cfg.Port = 3551
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = "sqlite"
	}
	if cfg.RateLimitCapacity == 0 {
		cfg.RateLimitCapacity = 5
	}
	if cfg.RateLimitRefillPerSec == 0 {
		cfg.RateLimitRefillPerSec = 1
	}

	// Validation
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secret - MUST be provided
	if cfg.IPHashSalt == "" {
		return Config{}, errors.New("IP_HASH_SALT required")
	}

	return cfg, nil
}
