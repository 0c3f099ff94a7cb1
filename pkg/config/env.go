package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overrides settings from SPINE_MC_* environment variables
func (c *Config) ApplyEnv() {
	c.Observability.LogLevel = getEnv("SPINE_MC_LOG_LEVEL", c.Observability.LogLevel)
	c.Observability.LogFormat = getEnv("SPINE_MC_LOG_FORMAT", c.Observability.LogFormat)
	c.Observability.OTelEndpoint = getEnv("SPINE_MC_OTEL_ENDPOINT", c.Observability.OTelEndpoint)
	c.Observability.OTelInsecure = getEnvBool("SPINE_MC_OTEL_INSECURE", c.Observability.OTelInsecure)
	c.Generation.Workers = getEnvInt("SPINE_MC_WORKERS", c.Generation.Workers)
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
