package testutils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
)

const (
	ENV_TEST_REDIS_ADDR    = "AGENTIC_SOCIAL_TEST_REDIS_ADDR"
	ENV_TEST_POSTGRES_DSN  = "AGENTIC_SOCIAL_TEST_PG_DSN"
	ENV_TEST_WORDPRESS_URL = "AGENTIC_SOCIAL_TEST_WORDPRESS_URL"
)

// LoadEnv loads the .env file from the project root directory
func LoadEnv() error {
	_, filename, _, _ := runtime.Caller(0)
	// pkg/testutils -> project root
	envPath := filepath.Join(filepath.Dir(filename), "..", "..", ".env")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(envPath)
}

// LoadEnvOrPanic loads the .env file and panics if there's an error
func LoadEnvOrPanic() {
	if err := LoadEnv(); err != nil {
		panic("Failed to load .env file: " + err.Error())
	}
}

// GetEnvOrDefault gets an environment variable with a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
