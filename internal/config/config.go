// ABOUTME: Centralized configuration for the docqa server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the question-answering service
type Config struct {
	// HTTP settings
	ListenAddr string

	// Provider selection: "local" (deterministic, offline) or "openai"
	EmbeddingProvider string

	// OpenAI-compatible API settings (also covers DashScope/Qwen endpoints)
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Temperature    float64
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	EmbedBatchSize int

	// Retrieval settings
	DefaultTopK int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:        getEnv("DOCQA_ADDR", ":8787"),
		EmbeddingProvider: getEnv("DOCQA_EMBEDDER", "local"),
		APIKey:            os.Getenv("OPENAI_API_KEY"),
		BaseURL:           getEnv("OPENAI_BASE_URL", ""),
		ChatModel:         getEnv("DOCQA_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:    getEnv("DOCQA_EMBEDDING_MODEL", "text-embedding-3-small"),
		Temperature:       getEnvFloat("DOCQA_TEMPERATURE", 0.2),
		Timeout:           getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:        getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:        getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		EmbedBatchSize:    getEnvInt("DOCQA_EMBED_BATCH", 16),
		DefaultTopK:       getEnvInt("DOCQA_TOP_K", 4),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.EmbeddingProvider != "local" && c.EmbeddingProvider != "openai" {
		return fmt.Errorf("DOCQA_EMBEDDER must be \"local\" or \"openai\", got %q", c.EmbeddingProvider)
	}
	if c.EmbeddingProvider == "openai" && c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when DOCQA_EMBEDDER=openai")
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("DOCQA_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.DefaultTopK < 1 || c.DefaultTopK > 10 {
		return fmt.Errorf("DOCQA_TOP_K must be 1-10, got %d", c.DefaultTopK)
	}
	if c.EmbedBatchSize < 1 {
		return fmt.Errorf("DOCQA_EMBED_BATCH must be positive, got %d", c.EmbedBatchSize)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
