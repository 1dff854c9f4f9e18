// ==============================================================================
// CONFIG PACKAGE - pkg/config/config.go
// ==============================================================================
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Redis      RedisConfig
	Forex      ForexConfig
	Settlement SettlementConfig
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type ForexConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type SettlementConfig struct {
	// FeePercent is the per-bank fee rate expressed in percent (1.0 == 1%).
	FeePercent float64
	// MaxParticipants bounds the length of any discovered route.
	MaxParticipants int
}

func Load() *Config {
	return &Config{
		Redis: RedisConfig{
			URL:      normalizeRedisURL(getEnv("REDIS_URL", "localhost:6379")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Forex: ForexConfig{
			Endpoint: getEnv("FOREX_API_ENDPOINT", "https://api.exchangerate.host"),
			APIKey:   getEnv("FOREX_API_KEY", ""),
			Timeout:  getDurationEnv("FOREX_TIMEOUT", 10*time.Second),
			CacheTTL: getDurationEnv("FOREX_CACHE_TTL", 5*time.Minute),
		},
		Settlement: SettlementConfig{
			FeePercent:      getFloatEnv("SETTLEMENT_FEE_PERCENT", 1.0),
			MaxParticipants: getIntEnv("SETTLEMENT_MAX_PARTICIPANTS", 3),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func normalizeRedisURL(url string) string {
	// Strip redis:// or redis+tls:// scheme if present
	if strings.HasPrefix(url, "redis+tls://") {
		return url[len("redis+tls://"):]
	}
	if strings.HasPrefix(url, "redis://") {
		return url[len("redis://"):]
	}
	return url
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
