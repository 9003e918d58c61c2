package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration, read from the environment.
type Config struct {
	Env      string
	Port     string
	Database DatabaseConfig
	HTTP     HTTPConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type DatabaseConfig struct {
	Driver         string // mysql, postgres or sqlite3
	URL            string
	MaxConns       int
	ConnectRetries int
}

type HTTPConfig struct {
	RequestTimeout time.Duration
	RateLimit      float64 // requests per second per client
	RateBurst      int
}

type RedisConfig struct {
	Addr string // empty keeps rate limiting in memory
}

type KafkaConfig struct {
	Brokers []string // empty disables user events
	Topic   string
}

const defaultMySQLDSN = "root:@tcp(127.0.0.1:3306)/user-db"

// Load reads the configuration, applying defaults for unset variables.
func Load() (*Config, error) {
	var err error
	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "mysql"),
			URL:    getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "user-topic"),
		},
	}

	if cfg.Database.URL == "" && strings.EqualFold(cfg.Database.Driver, "mysql") {
		cfg.Database.URL = defaultMySQLDSN
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set for driver %s", cfg.Database.Driver)
	}

	if cfg.Database.MaxConns, err = getEnvInt("DB_MAX_CONNS", 5); err != nil {
		return nil, err
	}
	if cfg.Database.ConnectRetries, err = getEnvInt("DB_CONNECT_RETRIES", 10); err != nil {
		return nil, err
	}
	if cfg.HTTP.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTP.RateLimit, err = getEnvFloat("RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.HTTP.RateBurst, err = getEnvInt("RATE_BURST", 30); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// String masks the database URL.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Port: %s, DB: %s *** (masked), Redis: %q, Kafka: %v}",
		c.Env, c.Port, c.Database.Driver, c.Redis.Addr, c.Kafka.Brokers)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
