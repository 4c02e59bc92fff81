package toolsutil

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"taskchat/src/agent"
)

// Package-level logger for tools
var logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

// SetLogger allows setting a custom logger for the tools package
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// GetLogger returns the current tools logger
func GetLogger() *slog.Logger {
	return logger
}

// dueDateLayouts are the accepted due date formats, tried in order.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate parses an optional ISO-8601 due date. An empty string
// yields nil. A malformed value is a validation error so the model can
// correct it.
func ParseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, agent.NewValidationError(fmt.Sprintf("dueDate must be in ISO format (YYYY-MM-DD or RFC3339), got %q", value))
}
