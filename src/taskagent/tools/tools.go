package tools

// Barrel-style re-exports for the task tools so callers can assemble the
// catalog from one import.

import (
	"database/sql"

	"taskchat/src/agent"
	tool_completetask "taskchat/src/taskagent/tools/tool_completetask"
	tool_createtask "taskchat/src/taskagent/tools/tool_createtask"
	tool_deletetask "taskchat/src/taskagent/tools/tool_deletetask"
	tool_listtasks "taskchat/src/taskagent/tools/tool_listtasks"
	tool_updatetask "taskchat/src/taskagent/tools/tool_updatetask"
)

// Tool name constants - re-exported from individual packages
const (
	CreateTaskName   = tool_createtask.Name
	ListTasksName    = tool_listtasks.Name
	CompleteTaskName = tool_completetask.Name
	UpdateTaskName   = tool_updatetask.Name
	DeleteTaskName   = tool_deletetask.Name
)

func CreateTaskTool(db *sql.DB) (agent.Tool, error)   { return tool_createtask.Tool(db) }
func ListTasksTool(db *sql.DB) (agent.Tool, error)    { return tool_listtasks.Tool(db) }
func CompleteTaskTool(db *sql.DB) (agent.Tool, error) { return tool_completetask.Tool(db) }
func UpdateTaskTool(db *sql.DB) (agent.Tool, error)   { return tool_updatetask.Tool(db) }
func DeleteTaskTool(db *sql.DB) (agent.Tool, error)   { return tool_deletetask.Tool(db) }

// All returns constructors for the full fixed catalog.
func All(db *sql.DB) []func() (agent.Tool, error) {
	return []func() (agent.Tool, error){
		func() (agent.Tool, error) { return CreateTaskTool(db) },
		func() (agent.Tool, error) { return ListTasksTool(db) },
		func() (agent.Tool, error) { return CompleteTaskTool(db) },
		func() (agent.Tool, error) { return UpdateTaskTool(db) },
		func() (agent.Tool, error) { return DeleteTaskTool(db) },
	}
}
