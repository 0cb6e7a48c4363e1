package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	MongoURI           string
	MongoDatabase      string
	RedisURL           string
	JWTSecret          string
	LogLevel           string
	CORSAllowedOrigins []string
	AuthRateLimit      int
	AuthRateWindowSecs int
	PostActivationMins int
	WorkerIntervalMins int
	TracingEndpoint    string
}

// Load reads configuration from a .env file (if present) and the
// environment. Environment variables win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	authRateLimit, err := strconv.Atoi(getEnv("AUTH_RATE_LIMIT", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT: %w", err)
	}

	authRateWindow, err := strconv.Atoi(getEnv("AUTH_RATE_WINDOW_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_WINDOW_SECONDS: %w", err)
	}

	activationMins, err := strconv.Atoi(getEnv("POST_ACTIVATION_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid POST_ACTIVATION_MINUTES: %w", err)
	}

	workerInterval, err := strconv.Atoi(getEnv("WORKER_INTERVAL_MINUTES", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_INTERVAL_MINUTES: %w", err)
	}

	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		ServerPort:         port,
		MongoURI:           getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DB", "chatter"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		AuthRateLimit:      authRateLimit,
		AuthRateWindowSecs: authRateWindow,
		PostActivationMins: activationMins,
		WorkerIntervalMins: workerInterval,
		TracingEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
