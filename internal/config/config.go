// Package config centralises configuration parsing for the activities service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for the API and the roster consumer.
type Config struct {
	HTTPAddress        string
	SeedFile           string // Optional JSON seed document; the embedded seed is used when empty.
	EnforceCapacity    bool
	CORSAllowedOrigin  string
	LogLevel           string
	LogFormat          string
	KafkaBrokers       []string
	RosterTopic        string
	KafkaBatchSize     int
	KafkaBatchTimeout  time.Duration
	RosterWebhookURL   string
	RosterWebhookToken string
	HTTPTimeout        time.Duration
	ConsumerGroupID    string
	MetricsAddress     string
	ShutdownTimeout    time.Duration
}

// Load reads a local .env file when present, then environment variables, applying defaults for local dev.
func Load() Config {
	// Variables already present in the environment are never overridden by .env.
	_ = godotenv.Load()

	return Config{
		HTTPAddress:        getEnv("HTTP_ADDRESS", ":8000"),
		SeedFile:           getEnv("SEED_FILE", ""),
		EnforceCapacity:    getBoolEnv("ENFORCE_CAPACITY", false),
		CORSAllowedOrigin:  getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		RosterTopic:        getEnv("ROSTER_TOPIC", "activity_roster_events"),
		KafkaBatchSize:     getIntEnv("KAFKA_BATCH_SIZE", 100),
		KafkaBatchTimeout:  getDurationEnv("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		RosterWebhookURL:   getEnv("ROSTER_WEBHOOK_URL", ""),
		RosterWebhookToken: getEnv("ROSTER_WEBHOOK_TOKEN", ""),
		HTTPTimeout:        getDurationEnv("HTTP_TIMEOUT", 5*time.Second),
		ConsumerGroupID:    getEnv("CONSUMER_GROUP_ID", "roster-audit-consumer"),
		MetricsAddress:     getEnv("METRICS_ADDRESS", ":9195"),
		ShutdownTimeout:    getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// KafkaEnabled reports whether roster events should be published to Kafka.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
