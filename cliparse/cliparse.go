package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

const (
	defaultPort       = 3318
	defaultSessionTTL = 14 * 24 * time.Hour
	defaultRateLimit  = 30
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	SessionSecret string
	SessionTTL    time.Duration
	RedisURL      string
	RateLimit     int  // POST requests per minute per client
	TrustProxy    bool // honour X-Forwarded-For / X-Real-IP
	LogLevel      slog.Level

	// Metrics are exported over OTLP/gRPC when an endpoint is set
	OTLPEndpoint string
	OTLPInsecure bool
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var logLevel string

	fs := flag.NewFlagSet("polls", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for shared rate limiting")
	fs.IntVar(&cfg.RateLimit, "rate-limit", 0, "POST requests per minute per client")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Login session lifetime")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "Trust X-Forwarded-For from a fronting proxy")
	fs.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for metrics (host:port)")
	fs.BoolVar(&cfg.OTLPInsecure, "otlp-insecure", false, "Use plaintext for the OTLP connection")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.SessionTTL == 0 {
		if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = ttl
		} else {
			cfg.SessionTTL = defaultSessionTTL
		}
	}
	if cfg.SessionTTL < 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}

	if cfg.RateLimit == 0 {
		if limitStr := os.Getenv("RATE_LIMIT_PER_MINUTE"); limitStr != "" {
			limit, err := strconv.Atoi(limitStr)
			if err != nil {
				return Config{}, errors.New("invalid RATE_LIMIT_PER_MINUTE env variable")
			}
			cfg.RateLimit = limit
		} else {
			cfg.RateLimit = defaultRateLimit
		}
	}
	if cfg.RateLimit < 0 {
		return Config{}, errors.New("rate limit must be positive")
	}

	if !cfg.TrustProxy {
		cfg.TrustProxy = envBool("TRUST_PROXY")
	}

	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if !cfg.OTLPInsecure {
		cfg.OTLPInsecure = envBool("OTEL_EXPORTER_OTLP_INSECURE")
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	level, err := parseLevel(logLevel)
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
