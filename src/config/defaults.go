package config

import (
	"time"
)

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:      "https://api.openai.com/v1",
			Model:        "gpt-4o-mini",
			APIKeyEnvVar: "OPENAI_API_KEY",
			Timeout:      30 * time.Second,
			Retry: RetryConfig{
				MaxRetries:   2,
				InitialDelay: 500 * time.Millisecond,
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			DatabasePath: DefaultDatabasePath(),
		},
		Chat: ChatConfig{
			HistoryLimit:      50,
			MaxToolIterations: 5,
			TurnTimeout:       60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
