package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"humanizer-service/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// JWT
	JWT jwt.Config

	// Humanizer upstream
	HumanizerAPIURL  string
	HumanizerAPIKey  string
	HumanizerTimeout time.Duration
	UseRemote        bool

	// Rate limiting
	HumanizeMaxPerMinute int64
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		JWT: jwt.Config{
			Secret:   getEnv("JWT_SECRET", ""),
			Issuer:   "humanizer-service",
			Audience: "humanizer-users",
			TTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
		},

		HumanizerAPIURL:  getEnv("HUMANIZER_API_URL", ""),
		HumanizerAPIKey:  getEnv("HUMANIZER_API_KEY", ""),
		HumanizerTimeout: getEnvDuration("HUMANIZER_TIMEOUT", 10*time.Second),
		UseRemote:        getEnvBool("HUMANIZER_USE_REMOTE", false),

		HumanizeMaxPerMinute: getEnvInt64("HUMANIZE_RATE_LIMIT", 30),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.ToLower(v) == "true"
	}
	return fallback
}
