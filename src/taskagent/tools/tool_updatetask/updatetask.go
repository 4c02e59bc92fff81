package tool_updatetask

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskchat/src/agent"
	"taskchat/src/storage"
	"taskchat/src/taskagent/toolsutil"
)

// Tool name constant
const Name = "updateTask"

const updateTaskPrompt = `Update the title, description, priority, or due date of one of the user's tasks. Only the provided fields change.`

// UpdateTaskInput represents the parameters for updateTask
type UpdateTaskInput struct {
	TaskID      string  `json:"taskId" required:"true" validate:"required,uuid" description:"Id of the task to update"`
	Title       *string `json:"title,omitempty" minLength:"1" maxLength:"200" validate:"omitempty,min=1,max=200" description:"New title (max 200 chars)"`
	Description *string `json:"description,omitempty" maxLength:"1000" validate:"omitempty,max=1000" description:"New description (max 1000 chars)"`
	Priority    *string `json:"priority,omitempty" enum:"low,medium,high" validate:"omitempty,oneof=low medium high" description:"New priority"`
	DueDate     *string `json:"dueDate,omitempty" description:"New due date in ISO format"`
}

// UpdateTaskOutput represents the response from updateTask
type UpdateTaskOutput struct {
	Task storage.Task `json:"task" description:"The updated task"`
}

// Tool returns the updateTask tool definition
func Tool(db *sql.DB) (agent.Tool, error) {
	return agent.NewGenericTool(Name, updateTaskPrompt, makeUpdateTaskHandler(db))
}

func makeUpdateTaskHandler(db *sql.DB) agent.GenericToolHandler[UpdateTaskInput, UpdateTaskOutput] {
	return func(ctx context.Context, ownerID string, input UpdateTaskInput) (UpdateTaskOutput, error) {
		update := storage.TaskUpdate{}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return UpdateTaskOutput{}, agent.NewValidationError("title cannot be empty or whitespace only")
			}
			update.Title = &title
		}
		if input.Description != nil {
			desc := strings.TrimSpace(*input.Description)
			update.Description = &desc
		}
		if input.Priority != nil {
			update.Priority = input.Priority
		}
		if input.DueDate != nil {
			dueDate, err := toolsutil.ParseDueDate(*input.DueDate)
			if err != nil {
				return UpdateTaskOutput{}, err
			}
			update.DueDate = dueDate
		}

		task, err := storage.UpdateTask(ctx, db, ownerID, input.TaskID, update)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return UpdateTaskOutput{}, fmt.Errorf("%w: no task with id %s", agent.ErrNotFound, input.TaskID)
			}
			return UpdateTaskOutput{}, fmt.Errorf("failed to update task: %w", err)
		}

		toolsutil.GetLogger().Info("task updated", "task_id", task.ID, "owner_id", ownerID)
		return UpdateTaskOutput{Task: *task}, nil
	}
}
