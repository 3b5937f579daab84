package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable through DATA_BACKEND.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendRedis}

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend    string
	DataDir        string
	SQLiteDBPath   string
	RedisURL       string
	RedisKeyPrefix string

	// AMQP (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Timing
	BackupInterval time.Duration
	DebounceDelay  time.Duration
	ChartDelay     time.Duration

	// Lazy lists
	TransactionsPageSize  int
	TransactionsLazyDelay time.Duration
	GoalsPageSize         int
	GoalsLazyDelay        time.Duration

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:    getEnv("DATA_BACKEND", BackendMemory),
		DataDir:        getEnv("DATA_DIR", ""),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/moneytracker.db"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "moneytracker:"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneytracker"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "record_events"),

		BackupInterval: getEnvDuration("BACKUP_INTERVAL", 30*time.Second),
		DebounceDelay:  getEnvDuration("DEBOUNCE_DELAY", 300*time.Millisecond),
		ChartDelay:     getEnvDuration("CHART_DELAY", 100*time.Millisecond),

		TransactionsPageSize:  getEnvInt("TRANSACTIONS_PAGE_SIZE", 30),
		TransactionsLazyDelay: getEnvDuration("TRANSACTIONS_LAZY_DELAY", time.Second),
		GoalsPageSize:         getEnvInt("GOALS_PAGE_SIZE", 4),
		GoalsLazyDelay:        getEnvDuration("GOALS_LAZY_DELAY", 500*time.Millisecond),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case BackendRedis:
		if c.RedisURL == "" {
			errors = append(errors, "Redis URL cannot be empty when using redis backend")
		} else if u, err := url.Parse(c.RedisURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Redis URL '%s': %v", c.RedisURL, err))
		} else if u.Scheme != "redis" && u.Scheme != "rediss" {
			errors = append(errors, fmt.Sprintf("invalid Redis URL scheme '%s': must be 'redis' or 'rediss'", u.Scheme))
		}
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("data directory does not exist: %s", c.DataDir))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BackupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid backup interval %v: must be at least 1 second", c.BackupInterval))
	} else if c.BackupInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid backup interval %v: must be at most 24 hours", c.BackupInterval))
	}
	if c.DebounceDelay <= 0 || c.DebounceDelay > 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid debounce delay %v: must be between 0 and 10s", c.DebounceDelay))
	}
	if c.ChartDelay <= 0 || c.ChartDelay > 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid chart delay %v: must be between 0 and 10s", c.ChartDelay))
	}

	if c.TransactionsPageSize < 1 || c.TransactionsPageSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid transactions page size %d: must be between 1 and 1000", c.TransactionsPageSize))
	}
	if c.GoalsPageSize < 1 || c.GoalsPageSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid goals page size %d: must be between 1 and 1000", c.GoalsPageSize))
	}
	if c.TransactionsLazyDelay < 0 || c.GoalsLazyDelay < 0 {
		errors = append(errors, "lazy load delays cannot be negative")
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
