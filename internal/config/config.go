package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Staging backends
const (
	StagingLocal = "local"
	StagingAzure = "azure"
)

// Completion API modes
const (
	CompletionModeChat       = "chat"
	CompletionModeCompletion = "completion"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	StaticDir          string
	LogLevel           string
	MetricsEnabled     bool

	CompletionAPIKey     string
	CompletionBaseURL    string
	CompletionModel      string
	CompletionMode       string
	CompletionTimeout    time.Duration
	CompletionMaxRetries int

	StagingBackend        string
	UploadDir             string
	AzureStorageAccount   string
	AzureStorageKey       string
	AzureStagingContainer string

	AnalyzerWorkers int
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	apiKey := getEnvOrDefault("COMPLETION_API_KEY", os.Getenv("COHERE_API_KEY"))

	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 16*1024*1024), // 16MB
		StaticDir:          getEnvOrDefault("STATIC_DIR", "static"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		MetricsEnabled:     parseBoolOrDefault("METRICS_ENABLED", true),

		CompletionAPIKey:     strings.TrimSpace(apiKey),
		CompletionBaseURL:    getEnvOrDefault("COMPLETION_BASE_URL", "https://api.cohere.ai/compatibility/v1"),
		CompletionModel:      getEnvOrDefault("COMPLETION_MODEL", "command-r"),
		CompletionMode:       strings.ToLower(getEnvOrDefault("COMPLETION_MODE", CompletionModeChat)),
		CompletionTimeout:    parseDurationOrDefault("COMPLETION_TIMEOUT", 30*time.Second),
		CompletionMaxRetries: int(parseIntOrDefault("COMPLETION_MAX_RETRIES", 3)),

		StagingBackend:        strings.ToLower(getEnvOrDefault("STAGING_BACKEND", StagingLocal)),
		UploadDir:             getEnvOrDefault("UPLOAD_DIR", "uploads"),
		AzureStorageAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:       os.Getenv("AZURE_STORAGE_KEY"),
		AzureStagingContainer: getEnvOrDefault("AZURE_STAGING_CONTAINER", "uploads"),

		AnalyzerWorkers: int(parseIntOrDefault("ANALYZER_WORKERS", 0)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and cross-field requirements
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.CompletionTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, completion=%s)",
			c.RequestTimeout, c.CompletionTimeout)
	}
	if c.CompletionAPIKey == "" {
		return fmt.Errorf("COMPLETION_API_KEY (or COHERE_API_KEY) is required")
	}
	if c.CompletionMode != CompletionModeChat && c.CompletionMode != CompletionModeCompletion {
		return fmt.Errorf("COMPLETION_MODE must be %q or %q (got %q)",
			CompletionModeChat, CompletionModeCompletion, c.CompletionMode)
	}
	if c.CompletionMaxRetries < 1 {
		return fmt.Errorf("COMPLETION_MAX_RETRIES must be >= 1 (got %d)", c.CompletionMaxRetries)
	}
	switch c.StagingBackend {
	case StagingLocal:
		if strings.TrimSpace(c.UploadDir) == "" {
			return fmt.Errorf("UPLOAD_DIR must not be empty")
		}
	case StagingAzure:
		if c.AzureStorageAccount == "" || c.AzureStorageKey == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY are required for the azure staging backend")
		}
	default:
		return fmt.Errorf("unsupported STAGING_BACKEND: %q", c.StagingBackend)
	}
	if c.AnalyzerWorkers < 0 {
		return fmt.Errorf("ANALYZER_WORKERS must be >= 0 (got %d)", c.AnalyzerWorkers)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
