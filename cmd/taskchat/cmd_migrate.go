package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"taskchat/src/storage"
)

// MigrateCmd manages database migrations
type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Run pending migrations"`
	Status MigrateStatusCmd `cmd:"" help:"Show migration status"`
}

// MigrateUpCmd runs pending migrations. Opening the database applies them.
type MigrateUpCmd struct {
	DBPath string `help:"Database path (defaults to config)"`
}

func (c *MigrateUpCmd) Run(ctx *kong.Context, cli *CLI) error {
	dbPath, err := resolveDBPath(cli, c.DBPath)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Printf("Database migrated: %s\n", dbPath)
	return nil
}

// MigrateStatusCmd shows applied migration versions.
type MigrateStatusCmd struct {
	DBPath string `help:"Database path (defaults to config)"`
}

func (c *MigrateStatusCmd) Run(ctx *kong.Context, cli *CLI) error {
	dbPath, err := resolveDBPath(cli, c.DBPath)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	applied, err := db.AppliedMigrations()
	if err != nil {
		return err
	}
	fmt.Printf("Database: %s\n", dbPath)
	for _, version := range applied {
		fmt.Printf("  applied: %03d\n", version)
	}
	return nil
}

func resolveDBPath(cli *CLI, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	cfg, err := loadConfig(cli)
	if err != nil {
		return "", err
	}
	return cfg.Storage.DatabasePath, nil
}
