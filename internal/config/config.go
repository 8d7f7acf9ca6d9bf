// package config loads application configuration from .env, an optional yaml
// file and environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	CacheBackendSQL   = "sql"
	CacheBackendRedis = "redis"
)

// Config holds all application configuration.
type Config struct {
	// remote api
	APIBaseURL    string  `yaml:"api_url"`
	APITimeoutSec int     `yaml:"api_timeout_seconds"`
	APIRPS        float64 `yaml:"api_rps"`

	// url cache
	DiskCache    bool   `yaml:"disk_cache"`
	CacheBackend string `yaml:"cache_backend"`
	DatabaseURL  string `yaml:"database_url"`
	RedisURL     string `yaml:"redis_url"`

	// nats
	NatsURL string `yaml:"nats_url"`

	// server
	HTTPPort        int    `yaml:"http_port"`
	RefreshSchedule string `yaml:"refresh_schedule"`

	// logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// APITimeout returns the remote api timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSec) * time.Second
}

// Load reads configuration with sensible defaults.
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:      "https://jobs.github.com",
		APITimeoutSec:   15,
		APIRPS:          5,
		DiskCache:       true,
		CacheBackend:    CacheBackendSQL,
		DatabaseURL:     "./data/jobs.db",
		RedisURL:        "redis://localhost:6379/0",
		NatsURL:         "",
		HTTPPort:        3100,
		RefreshSchedule: "@every 10m",
		LogLevel:        "info",
		LogFile:         "",
	}

	if path := os.Getenv("JOBS_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.APIBaseURL = strings.TrimRight(getEnv("JOBS_API_URL", cfg.APIBaseURL), "/")
	cfg.APITimeoutSec = getEnvInt("JOBS_API_TIMEOUT_SECONDS", cfg.APITimeoutSec)
	cfg.APIRPS = getEnvFloat("JOBS_API_RPS", cfg.APIRPS)
	cfg.DiskCache = getEnvBool("JOBS_DISK_CACHE", cfg.DiskCache)
	cfg.CacheBackend = getEnv("CACHE_BACKEND", cfg.CacheBackend)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.NatsURL = getEnv("NATS_URL", cfg.NatsURL)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.RefreshSchedule = getEnvAllowEmpty("REFRESH_SCHEDULE", cfg.RefreshSchedule)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("config: JOBS_API_URL must not be empty")
	}
	switch c.CacheBackend {
	case CacheBackendSQL, CacheBackendRedis:
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.CacheBackend)
	}
	if c.APITimeoutSec <= 0 {
		return fmt.Errorf("config: api timeout must be positive, got %d", c.APITimeoutSec)
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// loadFile overlays yaml values onto cfg. ${VAR} references are expanded
// from the environment before parsing.
func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	content := envRef.ReplaceAllStringFunc(string(b), func(m string) string {
		return os.Getenv(envRef.FindStringSubmatch(m)[1])
	})

	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAllowEmpty is getEnv, except that a variable set to "" wins.
func getEnvAllowEmpty(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
