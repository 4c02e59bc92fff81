package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"taskchat/src/app"
	"taskchat/src/executor"
)

// ChatCmd sends one message and prints the assistant's reply.
type ChatCmd struct {
	Text           []string `arg:"" help:"The message to send"`
	User           string   `short:"u" default:"local" help:"Owner identity for the turn"`
	ConversationID string   `short:"c" help:"Continue an existing conversation"`
}

var (
	replyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	toolStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	fallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (c *ChatCmd) Run(ctx *kong.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	logger := createCLILogger(cli.LogLevel)

	application, err := app.New(cfg, cli.APIKey, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	resp, err := application.Turns.ProcessTurn(context.Background(), &executor.TurnRequest{
		OwnerID:        c.User,
		ConversationID: c.ConversationID,
		Message:        strings.Join(c.Text, " "),
	})
	if err != nil {
		return err
	}

	for _, inv := range resp.ToolInvocations {
		status := "ok"
		if !inv.Success {
			status = inv.Error.Kind
		}
		fmt.Println(toolStyle.Render(fmt.Sprintf("[%s: %s]", inv.Tool, status)))
	}

	style := replyStyle
	if resp.Fallback {
		style = fallbackStyle
	}
	fmt.Println(style.Render(resp.Response))
	fmt.Println(metaStyle.Render("conversation: " + resp.ConversationID))
	return nil
}
