package common

import (
	"testing"
)

func TestIsProduction(t *testing.T) {
	tests := []struct {
		environment string
		want        bool
	}{
		{"production", true},
		{"prod", true},
		{"PRODUCTION", true},
		{"  prod  ", true},
		{"development", false},
		{"dev", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}
			if got := cfg.IsProduction(); got != tt.want {
				t.Errorf("IsProduction(%q) = %v, want %v", tt.environment, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Claude.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Unexpected default model %q", cfg.Claude.Model)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("Expected default max results 5, got %d", cfg.Search.MaxResults)
	}
	if cfg.Sessions.MaxHistory != 2 {
		t.Errorf("Expected default max history 2, got %d", cfg.Sessions.MaxHistory)
	}
	if cfg.IsProduction() {
		t.Error("Default config should not be production")
	}
}
