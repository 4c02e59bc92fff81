package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	APIKey   string `env:"OPENAI_API_KEY" help:"API key for the reasoning engine"`
	BaseURL  string `help:"Custom API base URL"`
	Model    string `help:"Model to use"`
	Config   string `help:"Path to a config file" type:"path"`
	LogLevel string `default:"info" help:"Log level (debug, info, warn, error)"`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP server"`
	Chat    ChatCmd    `cmd:"" help:"Run a single chat turn from the terminal"`
	Migrate MigrateCmd `cmd:"" help:"Database migrations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("taskchat"),
		kong.Description("Conversational task manager"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
