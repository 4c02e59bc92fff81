package tool_listtasks

import (
	"context"
	"database/sql"
	"fmt"

	"taskchat/src/agent"
	"taskchat/src/storage"
	"taskchat/src/taskagent/toolsutil"
)

// Tool name constant
const Name = "listTasks"

const listTasksPrompt = `List the user's tasks with an optional status filter. Returns the tasks plus the total count matching the filter.`

// ListTasksInput represents the parameters for listTasks
type ListTasksInput struct {
	Status string `json:"status,omitempty" enum:"all,pending,completed" validate:"omitempty,oneof=all pending completed" description:"Status filter (default: all)"`
	Limit  int    `json:"limit,omitempty" minimum:"1" maximum:"100" validate:"omitempty,gte=1,lte=100" description:"Max tasks to return (1-100, default 20)"`
	Offset int    `json:"offset,omitempty" minimum:"0" validate:"omitempty,gte=0" description:"Pagination offset"`
}

// ListTasksOutput represents the response from listTasks
type ListTasksOutput struct {
	Count        int            `json:"count" description:"Total tasks matching the filter"`
	Tasks        []storage.Task `json:"tasks" description:"The returned page of tasks"`
	StatusFilter string         `json:"statusFilter" description:"The filter that was applied"`
}

// Tool returns the listTasks tool definition
func Tool(db *sql.DB) (agent.Tool, error) {
	return agent.NewGenericTool(Name, listTasksPrompt, makeListTasksHandler(db))
}

func makeListTasksHandler(db *sql.DB) agent.GenericToolHandler[ListTasksInput, ListTasksOutput] {
	return func(ctx context.Context, ownerID string, input ListTasksInput) (ListTasksOutput, error) {
		status := input.Status
		if status == "" {
			status = "all"
		}

		tasks, err := storage.ListTasks(ctx, db, ownerID, status, input.Limit, input.Offset)
		if err != nil {
			return ListTasksOutput{}, fmt.Errorf("failed to list tasks: %w", err)
		}
		count, err := storage.CountTasks(ctx, db, ownerID, status)
		if err != nil {
			return ListTasksOutput{}, fmt.Errorf("failed to count tasks: %w", err)
		}

		toolsutil.GetLogger().Debug("tasks listed", "owner_id", ownerID, "status", status, "count", count)
		if tasks == nil {
			tasks = []storage.Task{}
		}
		return ListTasksOutput{
			Count:        count,
			Tasks:        tasks,
			StatusFilter: status,
		}, nil
	}
}
