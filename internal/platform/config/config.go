// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server wires at startup. Optional
// integrations (Redis, Kafka, SMTP) disable themselves when left empty.
type Config struct {
	Addr          string
	PostgresDSN   string
	RedisURL      string
	JWTSigningKey string

	KafkaSeeds      []string
	AlertTopic      string
	SMTP            SMTP
	ScopeCacheTTL   time.Duration
	ExportThreshold int
	ExportQueueSize int
	SweepInterval   time.Duration
	RiskParallelism int
}

// SMTP carries the notification relay settings.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// FromEnv reads the environment, falling back to development defaults.
func FromEnv() Config {
	return Config{
		Addr:          getenv("LOGLENS_ADDR", ":8080"),
		PostgresDSN:   os.Getenv("LOGLENS_POSTGRES_DSN"),
		RedisURL:      os.Getenv("LOGLENS_REDIS_URL"),
		JWTSigningKey: getenv("LOGLENS_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),

		KafkaSeeds: splitNonEmpty(os.Getenv("LOGLENS_KAFKA_SEEDS")),
		AlertTopic: getenv("LOGLENS_ALERT_TOPIC", "loglens.at-risk"),
		SMTP: SMTP{
			Host:     os.Getenv("LOGLENS_SMTP_HOST"),
			Port:     getenvInt("LOGLENS_SMTP_PORT", 587),
			Username: os.Getenv("LOGLENS_SMTP_USER"),
			Password: os.Getenv("LOGLENS_SMTP_PASS"),
			From:     os.Getenv("LOGLENS_SMTP_FROM"),
		},
		ScopeCacheTTL:   getenvDuration("LOGLENS_SCOPE_CACHE_TTL", 30*time.Second),
		ExportThreshold: getenvInt("LOGLENS_EXPORT_THRESHOLD", 1000),
		ExportQueueSize: getenvInt("LOGLENS_EXPORT_QUEUE_SIZE", 64),
		SweepInterval:   getenvDuration("LOGLENS_SWEEP_INTERVAL", time.Hour),
		RiskParallelism: getenvInt("LOGLENS_RISK_PARALLELISM", 4),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
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

func getenvDuration(key string, fallback time.Duration) time.Duration {
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

func splitNonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
