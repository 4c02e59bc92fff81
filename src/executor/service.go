// Package executor runs stateless chat turns: it owns no conversation
// state between calls and rebuilds everything it needs from storage on
// every turn.
package executor

import (
	"database/sql"
	"io"
	"log/slog"
	"time"

	"taskchat/src/agent"
	"taskchat/src/aisdk"
)

const (
	// DefaultHistoryLimit bounds how many stored messages are replayed to
	// the model on each turn.
	DefaultHistoryLimit = 50
	// DefaultMaxToolIterations bounds how many rounds of tool execution a
	// single turn may perform before it is cut off.
	DefaultMaxToolIterations = 5
	// DefaultTurnTimeout bounds the wall-clock time of one whole turn.
	DefaultTurnTimeout = 60 * time.Second

	// MaxMessageLength is the longest user message a turn accepts, in runes.
	MaxMessageLength = 2000
)

// Service processes chat turns against a single database and model client.
// It is safe for concurrent use; all per-turn state lives on the stack.
type Service struct {
	db      *sql.DB
	model   aisdk.ModelClient
	toolbox *agent.DefaultToolbox
	logger  *slog.Logger

	systemPrompt      string
	historyLimit      int
	maxToolIterations int
	turnTimeout       time.Duration
}

// ServiceConfig carries the dependencies and tunables for a Service. Zero
// values for the tunables select the defaults above.
type ServiceConfig struct {
	DB           *sql.DB
	Model        aisdk.ModelClient
	Toolbox      *agent.DefaultToolbox
	Logger       *slog.Logger
	SystemPrompt string

	HistoryLimit      int
	MaxToolIterations int
	TurnTimeout       time.Duration
}

func NewService(cfg *ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		db:                cfg.DB,
		model:             cfg.Model,
		toolbox:           cfg.Toolbox,
		logger:            logger,
		systemPrompt:      cfg.SystemPrompt,
		historyLimit:      cfg.HistoryLimit,
		maxToolIterations: cfg.MaxToolIterations,
		turnTimeout:       cfg.TurnTimeout,
	}
	if s.historyLimit <= 0 {
		s.historyLimit = DefaultHistoryLimit
	}
	if s.maxToolIterations <= 0 {
		s.maxToolIterations = DefaultMaxToolIterations
	}
	if s.turnTimeout <= 0 {
		s.turnTimeout = DefaultTurnTimeout
	}
	return s
}
