// Package taskagent assembles the fixed catalog of task management tools
// and the system prompt handed to the reasoning engine.
package taskagent

import (
	"database/sql"
	"fmt"
	"log/slog"

	"taskchat/src/agent"
	"taskchat/src/taskagent/tools"
	"taskchat/src/taskagent/toolsutil"
)

// NewToolbox builds the closed toolbox with all five task tools bound to
// the given database handle. The catalog is fixed; nothing else is
// callable.
func NewToolbox(db *sql.DB, logger *slog.Logger) (*agent.DefaultToolbox, error) {
	if logger != nil {
		toolsutil.SetLogger(logger.With("component", "task_tools"))
	}

	toolbox := agent.NewToolbox[agent.Tool]()
	for _, construct := range tools.All(db) {
		tool, err := construct()
		if err != nil {
			return nil, fmt.Errorf("failed to build tool: %w", err)
		}
		if err := toolbox.RegisterTool(tool); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", tool.GetName(), err)
		}
	}
	return toolbox, nil
}
