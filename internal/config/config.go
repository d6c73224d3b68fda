package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. Release builds refuse to serve admin routes with it.
const DefaultJWTSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Port    string
	GinMode string

	DBDriver    string // sqlite | pgx
	DBPath      string // sqlite file
	DatabaseURL string // postgres DSN

	JWTSecret          string
	RateLimitPerMinute int

	NATSURL           string // empty disables publishing
	NATSSubjectPrefix string

	TracingEnabled     bool
	TracingExporter    string // stdout | otlp
	OTLPEndpoint       string
	TracingSampleRatio float64

	ActiveShipWindow time.Duration
	ShipPathWindow   time.Duration
}

// Load 加载配置. A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getenvDefault("PORT", ":8080"),
		GinMode:           os.Getenv("GIN_MODE"),
		DBDriver:          strings.ToLower(getenvDefault("DB_DRIVER", "sqlite")),
		DBPath:            getenvDefault("DB_PATH", "./data/ais.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         getenvDefault("JWT_SECRET", DefaultJWTSecret),
		NATSURL:           os.Getenv("NATS_URL"),
		NATSSubjectPrefix: getenvDefault("NATS_SUBJECT_PREFIX", "discharge"),
		TracingEnabled:    parseBool(os.Getenv("TRACING_ENABLED")),
		TracingExporter:   strings.ToLower(getenvDefault("TRACING_EXPORTER", "stdout")),
		OTLPEndpoint:      os.Getenv("OTLP_ENDPOINT"),
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "pgx", "postgres":
		cfg.DBDriver = "pgx"
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set when DB_DRIVER=%s", cfg.DBDriver)
		}
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER: %q", cfg.DBDriver)
	}

	if !strings.HasPrefix(cfg.Port, ":") && !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	cfg.RateLimitPerMinute = 120
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %q", v)
		}
		cfg.RateLimitPerMinute = n
	}

	cfg.TracingSampleRatio = 1.0
	if v := os.Getenv("TRACING_SAMPLE_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return nil, fmt.Errorf("invalid TRACING_SAMPLE_RATIO: %q", v)
		}
		cfg.TracingSampleRatio = f
	}

	var err error
	if cfg.ActiveShipWindow, err = durationEnv("ACTIVE_SHIP_WINDOW", 3*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShipPathWindow, err = durationEnv("SHIP_PATH_WINDOW", 24*time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == "pgx" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// UsingDefaultJWTSecret reports whether admin tokens are signed with the built-in secret
func (c *Config) UsingDefaultJWTSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}
