package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	CORSAllowOrigins []string

	// SeedFile replaces the embedded catalog seed when set.
	SeedFile string

	// Events go to RabbitMQ when RabbitMQURL is set, otherwise to the log.
	EventsEnabled bool
	RabbitMQURL   string

	TracingEnabled bool

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() Config {
	return Config{
		Port:             getenv("PORT", "8080"),
		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
		SeedFile:         getenv("SEED_FILE", ""),
		EventsEnabled:    parseBool(getenv("EVENTS_ENABLED", "true"), true),
		RabbitMQURL:      getenv("RABBITMQ_URL", ""),
		TracingEnabled:   parseBool(getenv("TRACING_ENABLED", "false"), false),
		RequestTimeout:   parseDuration(getenv("REQUEST_TIMEOUT", "3s"), 3*time.Second),
		ShutdownTimeout:  parseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}
