package tool_completetask

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
const Name = "completeTask"

const completeTaskPrompt = `Mark one of the user's tasks as completed. The task id must belong to the user.`

// CompleteTaskInput represents the parameters for completeTask
type CompleteTaskInput struct {
	TaskID string `json:"taskId" required:"true" validate:"required,uuid" description:"Id of the task to complete"`
}

// CompleteTaskOutput represents the response from completeTask
type CompleteTaskOutput struct {
	Task storage.Task `json:"task" description:"The updated task"`
}

// Tool returns the completeTask tool definition
func Tool(db *sql.DB) (agent.Tool, error) {
	return agent.NewGenericTool(Name, completeTaskPrompt, makeCompleteTaskHandler(db))
}

func makeCompleteTaskHandler(db *sql.DB) agent.GenericToolHandler[CompleteTaskInput, CompleteTaskOutput] {
	return func(ctx context.Context, ownerID string, input CompleteTaskInput) (CompleteTaskOutput, error) {
		task, err := storage.CompleteTask(ctx, db, ownerID, input.TaskID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return CompleteTaskOutput{}, fmt.Errorf("%w: no task with id %s", agent.ErrNotFound, input.TaskID)
			}
			return CompleteTaskOutput{}, fmt.Errorf("failed to complete task: %w", err)
		}

		toolsutil.GetLogger().Info("task completed", "task_id", task.ID, "owner_id", ownerID)
		return CompleteTaskOutput{Task: *task}, nil
	}
}
