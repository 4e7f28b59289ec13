package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the scanner
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis (last batch mirror)
	Redis RedisConfig

	// Scanner
	Scanner ScannerConfig

	// Rate limiting for refresh/export endpoints
	RateLimit RateLimitConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ScannerConfig holds batch generation settings
type ScannerConfig struct {
	// Seed for the mock source. SeedSet=false means a time-derived seed per batch.
	Seed    uint64
	SeedSet bool

	ProfilePath     string        // 빈 값이면 내장 프로파일 사용
	RefreshSchedule string        // cron spec (seconds field), 빈 값이면 비활성
	BatchTTL        time.Duration // Redis 미러 TTL (0 = 만료 없음)
}

// RateLimitConfig holds token bucket settings
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Scanner: ScannerConfig{
			ProfilePath:     getEnv("SCANNER_PROFILE", ""),
			RefreshSchedule: getEnv("SCANNER_REFRESH_SCHEDULE", ""),
			BatchTTL:        getEnvAsDuration("SCANNER_BATCH_TTL", "0"),
		},

		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("RATE_LIMIT_RPS", 2),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 5),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if seed, ok, err := getEnvAsUint64("SCANNER_SEED"); err != nil {
		return nil, fmt.Errorf("config validation failed: SCANNER_SEED: %w", err)
	} else if ok {
		cfg.Scanner.Seed = seed
		cfg.Scanner.SeedSet = true
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}

	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be > 0")
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 1")
	}

	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsUint64 distinguishes "unset" from "set to 0"; a malformed seed is an error
func getEnvAsUint64(key string) (uint64, bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return 0, false, nil
	}

	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return 0, false, err
	}

	return value, true, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
