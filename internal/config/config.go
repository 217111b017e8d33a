package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Completion API
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	CompletionTimeout int // seconds

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		Env:               getEnvOrDefault("ENV", "development"),
		DatabaseURL:       mustGetEnv("DATABASE_URL"),
		RedisURL:          mustGetEnv("REDIS_URL"),
		JWTSecret:         mustGetEnv("JWT_SECRET"),
		OpenAIAPIKey:      mustGetEnv("OPENAI_API_KEY"),
		OpenAIBaseURL:     getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		CompletionTimeout: getEnvAsIntOrDefault("COMPLETION_TIMEOUT_SECONDS", 30),
		FrontendURL:       getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
