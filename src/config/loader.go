package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Loader loads and merges configuration from files and the environment.
type Loader struct {
	precedence ConfigPrecedence
	validator  *Validator
}

func NewLoader(precedence ConfigPrecedence) *Loader {
	return &Loader{
		precedence: precedence,
		validator:  NewValidator(),
	}
}

// Load builds the effective configuration: defaults, then the user file,
// then the project file, then environment overrides, then validation.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	sources := []struct {
		path   string
		source ConfigSource
	}{
		{l.precedence.UserConfig, SourceUser},
		{l.precedence.ProjectConfig, SourceProject},
	}
	for _, src := range sources {
		if src.path == "" {
			continue
		}
		if cfg, err := l.loadFile(src.path); err == nil {
			config = mergeConfigs(config, cfg)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s config from %s: %w", src.source, src.path, err)
		}
	}

	if l.precedence.EnvironmentPrefix != "" {
		l.applyEnvironmentOverrides(config)
	}

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &config, nil
}

// SaveFile writes the configuration as pretty-printed JSON, creating the
// parent directory if needed.
func (l *Loader) SaveFile(config *Config, path string) error {
	if err := l.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// mergeConfigs overlays override onto base, field by field; only set
// values in override take effect.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}
	if override.API.BaseURL != "" {
		result.API.BaseURL = override.API.BaseURL
	}
	if override.API.Model != "" {
		result.API.Model = override.API.Model
	}
	if override.API.APIKeyEnvVar != "" {
		result.API.APIKeyEnvVar = override.API.APIKeyEnvVar
	}
	if override.API.Timeout != 0 {
		result.API.Timeout = override.API.Timeout
	}
	if override.API.Retry.MaxRetries != 0 {
		result.API.Retry.MaxRetries = override.API.Retry.MaxRetries
	}
	if override.API.Retry.InitialDelay != 0 {
		result.API.Retry.InitialDelay = override.API.Retry.InitialDelay
	}
	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Server.ReadTimeout != 0 {
		result.Server.ReadTimeout = override.Server.ReadTimeout
	}
	if override.Server.WriteTimeout != 0 {
		result.Server.WriteTimeout = override.Server.WriteTimeout
	}
	if override.Server.ShutdownTimeout != 0 {
		result.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}
	if override.Storage.DatabasePath != "" {
		result.Storage.DatabasePath = override.Storage.DatabasePath
	}
	if override.Chat.HistoryLimit != 0 {
		result.Chat.HistoryLimit = override.Chat.HistoryLimit
	}
	if override.Chat.MaxToolIterations != 0 {
		result.Chat.MaxToolIterations = override.Chat.MaxToolIterations
	}
	if override.Chat.TurnTimeout != 0 {
		result.Chat.TurnTimeout = override.Chat.TurnTimeout
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.Format != "" {
		result.Log.Format = override.Log.Format
	}
	if override.Log.File != "" {
		result.Log.File = override.Log.File
	}

	return &result
}

// applyEnvironmentOverrides maps TASKCHAT_* variables onto the config.
func (l *Loader) applyEnvironmentOverrides(config *Config) {
	prefix := l.precedence.EnvironmentPrefix + "_"

	if v := os.Getenv(prefix + "API_BASE_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv(prefix + "API_MODEL"); v != "" {
		config.API.Model = v
	}
	if v := os.Getenv(prefix + "API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.API.Timeout = d
		}
	}
	if v := os.Getenv(prefix + "SERVER_ADDR"); v != "" {
		config.Server.Addr = v
	}
	if v := os.Getenv(prefix + "DATABASE_PATH"); v != "" {
		config.Storage.DatabasePath = v
	}
	if v := os.Getenv(prefix + "HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Chat.HistoryLimit = n
		}
	}
	if v := os.Getenv(prefix + "MAX_TOOL_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Chat.MaxToolIterations = n
		}
	}
	if v := os.Getenv(prefix + "TURN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Chat.TurnTimeout = d
		}
	}
	if v := os.Getenv(prefix + "LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv(prefix + "LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}
}

// APIKey resolves the API key from the configured environment variable.
func (c *Config) APIKey() string {
	if c.API.APIKeyEnvVar == "" {
		return ""
	}
	return os.Getenv(c.API.APIKeyEnvVar)
}
