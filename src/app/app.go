// Package app wires configuration, storage, the model client, the toolbox,
// and the turn executor into one runnable application.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"taskchat/src/agent"
	"taskchat/src/config"
	"taskchat/src/executor"
	"taskchat/src/llmclient"
	"taskchat/src/storage"
	"taskchat/src/taskagent"
)

// App holds all initialized services.
type App struct {
	Store   *storage.DB
	Model   *llmclient.Client
	Toolbox *agent.DefaultToolbox
	Turns   *executor.Service
	Config  *config.Config
	Logger  *slog.Logger
}

// New initializes every service from the configuration. The API key is
// resolved from the configured environment variable unless apiKey
// overrides it.
func New(cfg *config.Config, apiKey string, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	dbPath := cfg.Storage.DatabasePath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if apiKey == "" {
		apiKey = cfg.APIKey()
	}
	model, err := llmclient.NewClient(llmclient.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.API.BaseURL,
		Model:      cfg.API.Model,
		Timeout:    cfg.API.Timeout,
		RetryCount: cfg.API.Retry.MaxRetries,
		RetryDelay: cfg.API.Retry.InitialDelay,
		Logger:     logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	toolbox, err := taskagent.NewToolbox(store.DB(), logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to build toolbox: %w", err)
	}

	turns := executor.NewService(&executor.ServiceConfig{
		DB:                store.DB(),
		Model:             model,
		Toolbox:           toolbox,
		Logger:            logger,
		SystemPrompt:      taskagent.SystemPrompt(toolbox),
		HistoryLimit:      cfg.Chat.HistoryLimit,
		MaxToolIterations: cfg.Chat.MaxToolIterations,
		TurnTimeout:       cfg.Chat.TurnTimeout,
	})

	return &App{
		Store:   store,
		Model:   model,
		Toolbox: toolbox,
		Turns:   turns,
		Config:  cfg,
		Logger:  logger,
	}, nil
}

// Close releases all resources held by the app.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
