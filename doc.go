// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the polls web server.

Polls is a small voting site: users browse published questions, cast one
vote per question (and may change it) and see aggregate results.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded first if present:

	DATABASE_URL=polls.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --session-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path/DSN or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): Secret for signing login sessions

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SESSION_TTL (--session-ttl): Login lifetime (default: 336h)
  - REDIS_URL (--redis-url): Share rate limits between instances
  - RATE_LIMIT_PER_MINUTE (--rate-limit): POST requests per client (default: 30)
  - LOG_LEVEL (--log-level): debug, info, warn or error
  - TRUST_PROXY (--trust-proxy): Key rate limits on X-Forwarded-For
  - OTEL_EXPORTER_OTLP_ENDPOINT (--otlp-endpoint): Push metrics to a collector
  - OTEL_EXPORTER_OTLP_INSECURE (--otlp-insecure): Plaintext OTLP connection

Questions and choices are managed with the pollsctl command.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (poll pages, voting, accounts, JSON API)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, recovery, CORS, JSON helpers
  - views: Embedded HTML templates
  - models: Domain types and eligibility rules
  - store: SQL persistence
  - auth: Passwords and session cookies
  - ratelimit: Per-client write throttling
  - observability: OpenTelemetry metrics export
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
