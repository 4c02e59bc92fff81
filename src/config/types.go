// Package config loads and validates taskchat configuration from JSON
// files and environment variables.
package config

import (
	"time"
)

// Config is the complete configuration for taskchat.
type Config struct {
	// Version of the configuration format
	Version string `json:"version"`

	// API configures the reasoning engine connection
	API APIConfig `json:"api"`

	// Server configures the HTTP listener
	Server ServerConfig `json:"server"`

	// Storage configures the sqlite database
	Storage StorageConfig `json:"storage"`

	// Chat configures per-turn limits
	Chat ChatConfig `json:"chat"`

	// Log configures logging output
	Log LogConfig `json:"log"`
}

// APIConfig configures the OpenAI-compatible chat completions client.
type APIConfig struct {
	// BaseURL of the chat completions API
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`

	// Model identifier sent with every request
	Model string `json:"model,omitempty"`

	// APIKeyEnvVar names the environment variable holding the API key.
	// The key itself never appears in config files.
	APIKeyEnvVar string `json:"api_key_env_var,omitempty"`

	// Timeout for a single completion request
	Timeout time.Duration `json:"timeout,omitempty"`

	// Retry configures transient failure handling
	Retry RetryConfig `json:"retry"`
}

// RetryConfig configures retries of transient API failures.
type RetryConfig struct {
	MaxRetries   int           `json:"max_retries" validate:"gte=0,lte=10"`
	InitialDelay time.Duration `json:"initial_delay,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Addr is the listen address, host:port
	Addr string `json:"addr,omitempty"`

	ReadTimeout     time.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    time.Duration `json:"write_timeout,omitempty"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout,omitempty"`
}

// StorageConfig configures the database location.
type StorageConfig struct {
	// DatabasePath is the sqlite file path. Empty selects the XDG default.
	DatabasePath string `json:"database_path,omitempty"`
}

// ChatConfig bounds individual chat turns.
type ChatConfig struct {
	// HistoryLimit is how many stored messages are replayed per turn
	HistoryLimit int `json:"history_limit,omitempty" validate:"omitempty,gte=1,lte=500"`

	// MaxToolIterations bounds tool rounds within one turn
	MaxToolIterations int `json:"max_tool_iterations,omitempty" validate:"omitempty,gte=1,lte=25"`

	// TurnTimeout bounds one whole turn's wall-clock time
	TurnTimeout time.Duration `json:"turn_timeout,omitempty"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level,omitempty" validate:"omitempty,log_level"`

	// Format is one of text, json
	Format string `json:"format,omitempty" validate:"omitempty,log_format"`

	// File receives logs in addition to stderr when set
	File string `json:"file,omitempty"`
}

// ConfigSource identifies where a configuration value came from.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "environment"
)

// ConfigPrecedence lists the file paths consulted in load order; later
// sources override earlier ones.
type ConfigPrecedence struct {
	UserConfig        string
	ProjectConfig     string
	EnvironmentPrefix string
}

// ValidationError describes a single invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e ValidationError) Error() string {
	return "config: " + e.Field + ": " + e.Message
}
