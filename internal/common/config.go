package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Agent  AgentConfig
	Layout LayoutConfig
	Cache  CacheConfig
	Digest DigestConfig
}

// AgentConfig holds LLM-agent-related configuration
type AgentConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// LayoutConfig holds document-layout-engine configuration
type LayoutConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig holds result-cache configuration
type CacheConfig struct {
	Enabled  bool
	RedisURL string
	TTL      time.Duration
}

// DigestConfig holds extraction-pipeline configuration
type DigestConfig struct {
	SectionMarker string
	MaxFileSize   int64
	MaxAttempts   int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 90*time.Second),
		},
		Layout: LayoutConfig{
			BaseURL: getEnv("LAYOUT_BASE_URL", "http://localhost:5001"),
			Timeout: getEnvAsDuration("LAYOUT_TIMEOUT", 2*time.Minute),
		},
		Cache: CacheConfig{
			Enabled:  getEnvAsBool("CACHE_ENABLED", true),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			TTL:      getEnvAsDuration("CACHE_TTL", time.Hour),
		},
		Digest: DigestConfig{
			SectionMarker: getEnv("SECTION_MARKER", "NOTA DE NEGOCIAÇÃO"),
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 16*1024*1024),
			MaxAttempts:   getEnvAsInt("MAX_ATTEMPTS", 3),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Agent.APIKey == "" {
		return NewValidationError("OPENAI_API_KEY is required")
	}
	if c.Layout.BaseURL == "" {
		return NewValidationError("LAYOUT_BASE_URL is required")
	}
	if c.Digest.MaxAttempts <= 0 {
		return NewValidationError("MAX_ATTEMPTS must be positive")
	}
	if c.Digest.MaxFileSize <= 0 {
		return NewValidationError("MAX_FILE_SIZE must be positive")
	}
	return nil
}
