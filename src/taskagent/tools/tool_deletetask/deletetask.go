package tool_deletetask

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskchat/src/agent"
	"taskchat/src/storage"
	"taskchat/src/taskagent/toolsutil"
)

// Tool name constant
const Name = "deleteTask"

const deleteTaskPrompt = `Delete one of the user's tasks permanently. This cannot be undone.`

// DeleteTaskInput represents the parameters for deleteTask
type DeleteTaskInput struct {
	TaskID string `json:"taskId" required:"true" validate:"required,uuid" description:"Id of the task to delete"`
}

// DeleteTaskOutput represents the response from deleteTask
type DeleteTaskOutput struct {
	ID      string `json:"id" description:"Id of the removed task"`
	Deleted bool   `json:"deleted" description:"Whether the task was deleted"`
}

// Tool returns the deleteTask tool definition
func Tool(db *sql.DB) (agent.Tool, error) {
	return agent.NewGenericTool(Name, deleteTaskPrompt, makeDeleteTaskHandler(db))
}

func makeDeleteTaskHandler(db *sql.DB) agent.GenericToolHandler[DeleteTaskInput, DeleteTaskOutput] {
	return func(ctx context.Context, ownerID string, input DeleteTaskInput) (DeleteTaskOutput, error) {
		if err := storage.DeleteTask(ctx, db, ownerID, input.TaskID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return DeleteTaskOutput{}, fmt.Errorf("%w: no task with id %s", agent.ErrNotFound, input.TaskID)
			}
			return DeleteTaskOutput{}, fmt.Errorf("failed to delete task: %w", err)
		}

		toolsutil.GetLogger().Info("task deleted", "task_id", input.TaskID, "owner_id", ownerID)
		return DeleteTaskOutput{
			ID:      input.TaskID,
			Deleted: true,
		}, nil
	}
}
