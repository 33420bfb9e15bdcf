package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string
	JWTSecret string

	// RetrievalBaseURL is the RAG collaborator endpoint.
	RetrievalBaseURL string
	RetrievalTimeout time.Duration

	// StaleDataThreshold is how old a price version may be before the
	// STALE_DATA penalty applies.
	StaleDataThreshold time.Duration
}

func Load() *Config {
	// Best effort: .env is only present in dev
	_ = godotenv.Load()

	return &Config{
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "replydesk"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		RetrievalBaseURL:   getEnv("RETRIEVAL_BASE_URL", "http://localhost:8090"),
		RetrievalTimeout:   getEnvDuration("RETRIEVAL_TIMEOUT", 5*time.Second),
		StaleDataThreshold: getEnvDuration("STALE_DATA_THRESHOLD", 24*time.Hour),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultVal
}
