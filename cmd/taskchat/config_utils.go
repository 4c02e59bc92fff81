package main

import (
	"taskchat/src/config"
)

// loadConfig builds the effective configuration, honoring an explicit
// --config path and flag overrides.
func loadConfig(cli *CLI) (*config.Config, error) {
	precedence := config.DefaultPrecedence()
	if cli.Config != "" {
		precedence.ProjectConfig = cli.Config
	}

	cfg, err := config.NewLoader(precedence).Load()
	if err != nil {
		return nil, err
	}

	if cli.BaseURL != "" {
		cfg.API.BaseURL = cli.BaseURL
	}
	if cli.Model != "" {
		cfg.API.Model = cli.Model
	}
	return cfg, nil
}
