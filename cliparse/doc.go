// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first (godotenv), then
environment variables fill anything the CLI flags left unset.

# Config Fields

  - Port: Server listen port (default: 3551)
  - DatabaseURL: Connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - BaseURL: Public base URL for the service
  - RateLimitCapacity: Token bucket capacity (default: 5)
  - RateLimitRefillPerSec: Token refill rate (default: 1)
  - IPHashSalt: Secret for anonymous actor IP hashing (required)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-b              Public base URL
	--rate-capacity Token bucket capacity
	--rate-refill   Token refill per second
	--ip-salt       IP hash salt

# Environment Variables

Flags fall back to environment variables:

	PORT                      → -p
	DATABASE_URL              → -d
	DATABASE_TYPE             → -t
	BASE_URL                  → -b
	RATE_LIMIT_CAPACITY       → --rate-capacity
	RATE_LIMIT_REFILL_PER_SEC → --rate-refill
	IP_HASH_SALT              → --ip-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - IP_HASH_SALT must be provided
*/
package cliparse
