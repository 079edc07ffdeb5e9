package config

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port           string
	Store          string // "memory" or "postgres"
	StaticDir      string
	RequestTimeout time.Duration
}

func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnv("PORT", "8080"),
		Store:          getEnv("PFM_STORE", "postgres"),
		StaticDir:      getEnv("PFM_STATIC_DIR", "./frontend/dist"),
		RequestTimeout: getEnvAsDuration("PFM_REQUEST_TIMEOUT", 60*time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
