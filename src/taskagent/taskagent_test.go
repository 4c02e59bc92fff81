package taskagent

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/src/agent"
	"taskchat/src/aisdk"
	"taskchat/src/storage"
	"taskchat/src/taskagent/tools"
)

func setup(t *testing.T) (*agent.DefaultToolbox, *sql.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	toolbox, err := NewToolbox(db.DB(), nil)
	require.NoError(t, err)
	return toolbox, db.DB()
}

func invoke(toolbox *agent.DefaultToolbox, owner, tool, args string) *agent.Invocation {
	return toolbox.Invoke(context.Background(), owner, &aisdk.ToolCall{
		ID:   "call_1",
		Type: "function",
		Function: aisdk.FunctionCall{
			Name:      tool,
			Arguments: json.RawMessage(args),
		},
	})
}

func TestToolboxHasFullCatalog(t *testing.T) {
	toolbox, _ := setup(t)

	for _, name := range []string{
		tools.CreateTaskName,
		tools.ListTasksName,
		tools.CompleteTaskName,
		tools.UpdateTaskName,
		tools.DeleteTaskName,
	} {
		assert.True(t, toolbox.HasTool(name), "missing tool %s", name)
	}
	assert.Len(t, toolbox.Tools(), 5)
}

func TestSystemPromptListsTools(t *testing.T) {
	toolbox, _ := setup(t)

	prompt := SystemPrompt(toolbox)
	assert.Contains(t, prompt, "createTask")
	assert.Contains(t, prompt, "deleteTask")
	assert.NotEmpty(t, prompt)
}

func TestCreateTask(t *testing.T) {
	toolbox, db := setup(t)

	inv := invoke(toolbox, "user-1", tools.CreateTaskName,
		`{"title":"  Buy milk  ","priority":"high","dueDate":"2026-09-15"}`)
	require.True(t, inv.Success, "error: %v", inv.Error)

	var out struct {
		Task storage.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(inv.Result, &out))
	assert.Equal(t, "Buy milk", out.Task.Title)
	assert.Equal(t, storage.PriorityHigh, out.Task.Priority)
	require.NotNil(t, out.Task.DueDate)
	assert.Equal(t, 2026, out.Task.DueDate.Year())

	stored, err := storage.GetTask(context.Background(), db, "user-1", out.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusPending, stored.Status)
}

func TestCreateTaskValidation(t *testing.T) {
	toolbox, _ := setup(t)

	tests := []struct {
		name string
		args string
	}{
		{"missing title", `{}`},
		{"whitespace title", `{"title":"   "}`},
		{"bad priority", `{"title":"x","priority":"urgent"}`},
		{"unreadable due date", `{"title":"x","dueDate":"next tuesday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := invoke(toolbox, "user-1", tools.CreateTaskName, tt.args)
			require.False(t, inv.Success)
			assert.Equal(t, agent.ErrorKindValidation, inv.Error.Kind)
		})
	}
}

func TestListTasks(t *testing.T) {
	toolbox, db := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		task := &storage.Task{OwnerID: "user-1", Title: fmt.Sprintf("task %d", i)}
		require.NoError(t, storage.CreateTask(ctx, db, task))
		if i == 0 {
			_, err := storage.CompleteTask(ctx, db, "user-1", task.ID)
			require.NoError(t, err)
		}
	}

	inv := invoke(toolbox, "user-1", tools.ListTasksName, `{"status":"pending"}`)
	require.True(t, inv.Success)

	var out struct {
		Count        int            `json:"count"`
		Tasks        []storage.Task `json:"tasks"`
		StatusFilter string         `json:"statusFilter"`
	}
	require.NoError(t, json.Unmarshal(inv.Result, &out))
	assert.Equal(t, 2, out.Count)
	assert.Len(t, out.Tasks, 2)
	assert.Equal(t, "pending", out.StatusFilter)

	// Empty list comes back as an array, not null.
	inv = invoke(toolbox, "user-2", tools.ListTasksName, `{}`)
	require.True(t, inv.Success)
	assert.Contains(t, string(inv.Result), `"tasks":[]`)
}

func TestListTasksLimitValidation(t *testing.T) {
	toolbox, _ := setup(t)

	inv := invoke(toolbox, "user-1", tools.ListTasksName, `{"limit":500}`)
	require.False(t, inv.Success)
	assert.Equal(t, agent.ErrorKindValidation, inv.Error.Kind)
}

func TestCompleteTask(t *testing.T) {
	toolbox, db := setup(t)
	ctx := context.Background()

	task := &storage.Task{OwnerID: "user-1", Title: "Finish me"}
	require.NoError(t, storage.CreateTask(ctx, db, task))

	inv := invoke(toolbox, "user-1", tools.CompleteTaskName,
		fmt.Sprintf(`{"taskId":%q}`, task.ID))
	require.True(t, inv.Success, "error: %v", inv.Error)

	stored, err := storage.GetTask(ctx, db, "user-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusCompleted, stored.Status)

	// Completing again stays successful and completed.
	inv = invoke(toolbox, "user-1", tools.CompleteTaskName,
		fmt.Sprintf(`{"taskId":%q}`, task.ID))
	assert.True(t, inv.Success)
}

func TestCompleteTaskNotFoundAndForeign(t *testing.T) {
	toolbox, db := setup(t)
	ctx := context.Background()

	task := &storage.Task{OwnerID: "owner-a", Title: "Private"}
	require.NoError(t, storage.CreateTask(ctx, db, task))

	// A foreign task and a nonexistent task are indistinguishable.
	foreign := invoke(toolbox, "owner-b", tools.CompleteTaskName,
		fmt.Sprintf(`{"taskId":%q}`, task.ID))
	missing := invoke(toolbox, "owner-b", tools.CompleteTaskName,
		`{"taskId":"00000000-0000-4000-8000-000000000000"}`)

	for _, inv := range []*agent.Invocation{foreign, missing} {
		require.False(t, inv.Success)
		assert.Equal(t, agent.ErrorKindNotFound, inv.Error.Kind)
	}

	stored, err := storage.GetTask(ctx, db, "owner-a", task.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusPending, stored.Status)
}

func TestUpdateTask(t *testing.T) {
	toolbox, db := setup(t)
	ctx := context.Background()

	task := &storage.Task{OwnerID: "user-1", Title: "Old title"}
	require.NoError(t, storage.CreateTask(ctx, db, task))
	createdAt := task.CreatedAt.Truncate(time.Second)

	inv := invoke(toolbox, "user-1", tools.UpdateTaskName,
		fmt.Sprintf(`{"taskId":%q,"title":"New title","priority":"low"}`, task.ID))
	require.True(t, inv.Success, "error: %v", inv.Error)

	stored, err := storage.GetTask(ctx, db, "user-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", stored.Title)
	assert.Equal(t, storage.PriorityLow, stored.Priority)
	assert.Equal(t, createdAt, stored.CreatedAt.Truncate(time.Second))
}

func TestUpdateTaskBadID(t *testing.T) {
	toolbox, _ := setup(t)

	inv := invoke(toolbox, "user-1", tools.UpdateTaskName,
		`{"taskId":"not-a-uuid","title":"x"}`)
	require.False(t, inv.Success)
	assert.Equal(t, agent.ErrorKindValidation, inv.Error.Kind)
}

func TestDeleteTask(t *testing.T) {
	toolbox, db := setup(t)
	ctx := context.Background()

	task := &storage.Task{OwnerID: "user-1", Title: "Doomed"}
	require.NoError(t, storage.CreateTask(ctx, db, task))

	inv := invoke(toolbox, "user-1", tools.DeleteTaskName,
		fmt.Sprintf(`{"taskId":%q}`, task.ID))
	require.True(t, inv.Success, "error: %v", inv.Error)

	_, err := storage.GetTask(ctx, db, "user-1", task.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting again reports not found.
	inv = invoke(toolbox, "user-1", tools.DeleteTaskName,
		fmt.Sprintf(`{"taskId":%q}`, task.ID))
	require.False(t, inv.Success)
	assert.Equal(t, agent.ErrorKindNotFound, inv.Error.Kind)
}
