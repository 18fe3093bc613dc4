package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	LogFile     string // empty logs to stdout

	Story     string // built-in story name
	SceneFile string // overrides Story when set
	Seed      string // empty seeds from the clock

	RedisURL   string // empty keeps run history in memory
	HistoryTTL time.Duration
}

func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("HISTORY_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("HISTORY_TTL must be positive, got %s", ttl)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:     os.Getenv("LOG_FILE"),
		Story:       strings.ToLower(getEnv("STORY", "jungle")),
		SceneFile:   os.Getenv("SCENE_FILE"),
		Seed:        os.Getenv("SEED"),
		RedisURL:    os.Getenv("REDIS_URL"),
		HistoryTTL:  ttl,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
