package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Claude      ClaudeConfig   `toml:"claude"`
	Search      SearchConfig   `toml:"search"`
	Sessions    SessionsConfig `toml:"sessions"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key (ANTHROPIC_API_KEY env var takes priority)
	Model       string  `toml:"model"`       // Model for answer generation
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 800)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between API calls (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0)
}

// SearchConfig contains configuration for course content search
type SearchConfig struct {
	MaxResults int `toml:"max_results"` // Maximum passages returned per search (default: 5)
}

// SessionsConfig contains configuration for conversation sessions
type SessionsConfig struct {
	MaxHistory    int    `toml:"max_history"`    // Maximum exchanges kept per session (default: 2)
	TTL           string `toml:"ttl"`            // Session idle lifetime as duration string (default: "24h")
	PruneSchedule string `toml:"prune_schedule"` // Cron spec for expired session cleanup (default: "@every 1h")
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in lectern.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   800,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0,
		},
		Search: SearchConfig{
			MaxResults: 5,
		},
		Sessions: SessionsConfig{
			MaxHistory:    2,
			TTL:           "24h",
			PruneSchedule: "@every 1h",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: LECTERN_ENV, fallback: GO_ENV)
	if env := os.Getenv("LECTERN_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("LECTERN_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LECTERN_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("LECTERN_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("LECTERN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LECTERN_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("LECTERN_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("LECTERN_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // LECTERN_ prefix takes priority
	}
	if model := os.Getenv("LECTERN_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("LECTERN_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("LECTERN_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}
	if rateLimit := os.Getenv("LECTERN_CLAUDE_RATE_LIMIT"); rateLimit != "" {
		config.Claude.RateLimit = rateLimit
	}
	if temperature := os.Getenv("LECTERN_CLAUDE_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Claude.Temperature = float32(t)
		}
	}

	// Search configuration
	if maxResults := os.Getenv("LECTERN_SEARCH_MAX_RESULTS"); maxResults != "" {
		if mr, err := strconv.Atoi(maxResults); err == nil {
			config.Search.MaxResults = mr
		}
	}

	// Sessions configuration
	if maxHistory := os.Getenv("LECTERN_SESSIONS_MAX_HISTORY"); maxHistory != "" {
		if mh, err := strconv.Atoi(maxHistory); err == nil {
			config.Sessions.MaxHistory = mh
		}
	}
	if ttl := os.Getenv("LECTERN_SESSIONS_TTL"); ttl != "" {
		config.Sessions.TTL = ttl
	}
	if schedule := os.Getenv("LECTERN_SESSIONS_PRUNE_SCHEDULE"); schedule != "" {
		config.Sessions.PruneSchedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves the Anthropic API key with environment variable
// priority: LECTERN_CLAUDE_API_KEY -> ANTHROPIC_API_KEY -> config fallback.
func ResolveAPIKey(configFallback string) (string, error) {
	if envValue := os.Getenv("LECTERN_CLAUDE_API_KEY"); envValue != "" {
		return envValue, nil
	}
	if envValue := os.Getenv("ANTHROPIC_API_KEY"); envValue != "" {
		return envValue, nil
	}
	if configFallback != "" {
		return configFallback, nil
	}
	return "", fmt.Errorf("Anthropic API key not found in environment or config")
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
