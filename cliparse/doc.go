// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file/DSN or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - SessionSecret: Secret for signing login sessions (required)
  - SessionTTL: Login session lifetime (default: 336h)
  - RedisURL: Shared rate limiter backend (optional)
  - RateLimit: POST requests per minute per client (default: 30)
  - LogLevel: slog level (default: info)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--session-secret  Session signing secret
	--session-ttl     Session lifetime
	--redis-url       Redis URL
	--rate-limit      POST requests per minute
	--log-level       Log level

# Environment Variables

Flags fall back to environment variables:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	SESSION_SECRET        → --session-secret
	SESSION_TTL           → --session-ttl
	REDIS_URL             → --redis-url
	RATE_LIMIT_PER_MINUTE → --rate-limit
	LOG_LEVEL             → --log-level

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - SESSION_SECRET must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
