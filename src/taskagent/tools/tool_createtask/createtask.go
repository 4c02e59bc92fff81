package tool_createtask

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskchat/src/agent"
	"taskchat/src/storage"
	"taskchat/src/taskagent/toolsutil"
)

// Tool name constant
const Name = "createTask"

const createTaskPrompt = `Create a new task for the user with a title and optional description, priority, and due date.`

// CreateTaskInput represents the parameters for createTask
type CreateTaskInput struct {
	Title       string `json:"title" required:"true" minLength:"1" maxLength:"200" validate:"required,min=1,max=200" description:"Task title (required, max 200 chars)"`
	Description string `json:"description,omitempty" maxLength:"1000" validate:"omitempty,max=1000" description:"Task description (optional, max 1000 chars)"`
	Priority    string `json:"priority,omitempty" enum:"low,medium,high" validate:"omitempty,oneof=low medium high" description:"Task priority (default: medium)"`
	DueDate     string `json:"dueDate,omitempty" validate:"omitempty" description:"Due date in ISO format (optional)"`
}

// CreateTaskOutput represents the response from createTask
type CreateTaskOutput struct {
	Task storage.Task `json:"task" description:"The created task"`
}

// Tool returns the createTask tool definition
func Tool(db *sql.DB) (agent.Tool, error) {
	return agent.NewGenericTool(Name, createTaskPrompt, makeCreateTaskHandler(db))
}

func makeCreateTaskHandler(db *sql.DB) agent.GenericToolHandler[CreateTaskInput, CreateTaskOutput] {
	return func(ctx context.Context, ownerID string, input CreateTaskInput) (CreateTaskOutput, error) {
		title := strings.TrimSpace(input.Title)
		if title == "" {
			return CreateTaskOutput{}, agent.NewValidationError("title cannot be empty or whitespace only")
		}

		dueDate, err := toolsutil.ParseDueDate(input.DueDate)
		if err != nil {
			return CreateTaskOutput{}, err
		}

		task := &storage.Task{
			OwnerID:  ownerID,
			Title:    title,
			Priority: input.Priority,
			DueDate:  dueDate,
		}
		if desc := strings.TrimSpace(input.Description); desc != "" {
			task.Description = &desc
		}

		if err := storage.CreateTask(ctx, db, task); err != nil {
			return CreateTaskOutput{}, fmt.Errorf("failed to create task: %w", err)
		}

		toolsutil.GetLogger().Info("task created", "task_id", task.ID, "owner_id", ownerID)
		return CreateTaskOutput{Task: *task}, nil
	}
}
