package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("COMPLETION_API_KEY", "test-key")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("Expected 0.0.0.0:8080, got %s", cfg.ServerAddress())
	}
	if cfg.CompletionTimeout != 30*time.Second {
		t.Errorf("Expected 30s completion timeout, got %s", cfg.CompletionTimeout)
	}
	if cfg.CompletionMode != CompletionModeChat {
		t.Errorf("Expected chat mode, got %s", cfg.CompletionMode)
	}
	if cfg.StagingBackend != StagingLocal || cfg.UploadDir != "uploads" {
		t.Errorf("Unexpected staging defaults: %s %s", cfg.StagingBackend, cfg.UploadDir)
	}
	if !cfg.MetricsEnabled {
		t.Error("Expected metrics enabled by default")
	}
}

func TestLoadFromEnv_CohereKeyFallback(t *testing.T) {
	t.Setenv("COMPLETION_API_KEY", "")
	t.Setenv("COHERE_API_KEY", "cohere-key")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.CompletionAPIKey != "cohere-key" {
		t.Errorf("Expected fallback key, got %q", cfg.CompletionAPIKey)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing key", map[string]string{"COMPLETION_API_KEY": "", "COHERE_API_KEY": ""}, "COMPLETION_API_KEY"},
		{"bad port", map[string]string{"PORT": "70000"}, "invalid PORT"},
		{"bad mode", map[string]string{"COMPLETION_MODE": "stream"}, "COMPLETION_MODE"},
		{"bad backend", map[string]string{"STAGING_BACKEND": "s3"}, "unsupported STAGING_BACKEND"},
		{"azure without creds", map[string]string{"STAGING_BACKEND": "azure"}, "AZURE_STORAGE_ACCOUNT"},
		{"zero retries", map[string]string{"COMPLETION_MAX_RETRIES": "0"}, "COMPLETION_MAX_RETRIES"},
		{"negative body", map[string]string{"MAX_REQUEST_BODY_SIZE": "-1"}, "MAX_REQUEST_BODY_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseDurationOrDefault_IgnoresGarbage(t *testing.T) {
	t.Setenv("COMPLETION_TIMEOUT", "soon")
	if got := parseDurationOrDefault("COMPLETION_TIMEOUT", 5*time.Second); got != 5*time.Second {
		t.Errorf("Expected default, got %s", got)
	}
}
