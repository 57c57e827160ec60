package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Pipeline      PipelineConfig
	Cache         CacheConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
	MaxUploadBytes     int64
	AllowedOrigins     []string
}

// PipelineConfig selects how uploaded workbooks are read.
type PipelineConfig struct {
	Strategy        string // "region" or "header"
	Sheet           string
	HeaderRow       int // header strategy; -1 auto-detects
	ScanRows        int
	ReferenceYear   int
	Currency        string
	FormattedValues bool
}

// CacheConfig controls the per-upload result cache.
type CacheConfig struct {
	Enabled       bool
	MaxEntries    int
	TTL           time.Duration
	PurgeSchedule string // cron spec
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	LogLevel       string
}

// Load reads configuration from environment variables, after loading a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "localhost"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 40),
			MaxUploadBytes:     int64(getEnvAsInt("SERVER_MAX_UPLOAD_BYTES", 20<<20)),
			AllowedOrigins:     getEnvAsList("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Pipeline: PipelineConfig{
			Strategy:        getEnv("PIPELINE_STRATEGY", "region"),
			Sheet:           getEnv("PIPELINE_SHEET", "Dados Dashboard"),
			HeaderRow:       getEnvAsInt("PIPELINE_HEADER_ROW", -1),
			ScanRows:        getEnvAsInt("PIPELINE_SCAN_ROWS", 30),
			ReferenceYear:   getEnvAsInt("PIPELINE_REFERENCE_YEAR", 2025),
			Currency:        getEnv("PIPELINE_CURRENCY", "BRL"),
			FormattedValues: getEnvAsBool("PIPELINE_FORMATTED_VALUES", false),
		},
		Cache: CacheConfig{
			Enabled:       getEnvAsBool("CACHE_ENABLED", true),
			MaxEntries:    getEnvAsInt("CACHE_MAX_ENTRIES", 256),
			TTL:           getEnvAsDuration("CACHE_TTL", time.Hour),
			PurgeSchedule: getEnv("CACHE_PURGE_SCHEDULE", "@every 10m"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Pipeline.Strategy {
	case "region", "header":
	default:
		return fmt.Errorf("PIPELINE_STRATEGY must be region or header, got %q", c.Pipeline.Strategy)
	}
	if c.Pipeline.ReferenceYear < 1 {
		return errors.New("PIPELINE_REFERENCE_YEAR must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("SERVER_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
