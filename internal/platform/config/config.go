// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a development default; production overrides via
// ROADCHECK_* variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    RedisConfig
	Kafka    Kafka
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	ShutdownTimeout time.Duration

	// RateLimitPerMinute caps authenticated requests per tenant per minute.
	// Zero disables limiting.
	RateLimitPerMinute int
}

// Postgres captures the database connection. An empty DSN selects the
// in-memory stores.
type Postgres struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig captures the version-cache backend. An empty URL disables the
// distributed cache in favor of the in-process one.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// Kafka captures the audit event sink. Empty brokers keep audit events on
// the in-process store.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:               envString("ROADCHECK_ADDR", ":8080"),
			JWTSigningKey:      envString("ROADCHECK_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			ShutdownTimeout:    envDuration("ROADCHECK_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimitPerMinute: envInt("ROADCHECK_RATE_LIMIT_PER_MINUTE", 600),
		},
		Postgres: Postgres{
			DSN:          os.Getenv("ROADCHECK_POSTGRES_DSN"),
			MaxOpenConns: envInt("ROADCHECK_POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("ROADCHECK_POSTGRES_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("ROADCHECK_REDIS_URL"),
			PoolSize:     envInt("ROADCHECK_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("ROADCHECK_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("ROADCHECK_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("ROADCHECK_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("ROADCHECK_REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("ROADCHECK_RULES_CACHE_TTL", 5*time.Minute),
		},
		Kafka: Kafka{
			Brokers:    envList("ROADCHECK_KAFKA_BROKERS"),
			AuditTopic: envString("ROADCHECK_KAFKA_AUDIT_TOPIC", "roadcheck.audit"),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
