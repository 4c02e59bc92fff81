package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	applied, err := db.AppliedMigrations()
	require.NoError(t, err)
	assert.Contains(t, applied, 1)
}

func TestConversationLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	conv := &Conversation{OwnerID: "owner-a", Title: "Groceries"}
	require.NoError(t, CreateConversation(ctx, db.DB(), conv))
	require.NotEmpty(t, conv.ID)

	got, err := GetConversation(ctx, db.DB(), "owner-a", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)

	// The same id under another owner does not exist.
	_, err = GetConversation(ctx, db.DB(), "owner-b", conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := ListConversations(ctx, db.DB(), "owner-a", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = ListConversations(ctx, db.DB(), "owner-b", 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAppendMessageOwnership(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	conv := &Conversation{OwnerID: "owner-a"}
	require.NoError(t, CreateConversation(ctx, db.DB(), conv))

	err := AppendMessage(ctx, db.DB(), &Message{
		ConversationID: conv.ID,
		OwnerID:        "owner-b",
		Role:           RoleUser,
		Content:        "hello",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	err = AppendMessage(ctx, db.DB(), &Message{
		ConversationID: "00000000-0000-4000-8000-000000000000",
		OwnerID:        "owner-a",
		Role:           RoleUser,
		Content:        "hello",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// No messages were stored by the failed appends.
	messages, err := ListRecentMessages(ctx, db.DB(), "owner-a", conv.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAppendMessageBumpsConversation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	conv := &Conversation{OwnerID: "owner-a"}
	conv.CreatedAt = time.Now().UTC().Add(-time.Hour)
	conv.UpdatedAt = conv.CreatedAt
	require.NoError(t, CreateConversation(ctx, db.DB(), conv))

	require.NoError(t, AppendMessage(ctx, db.DB(), &Message{
		ConversationID: conv.ID,
		OwnerID:        "owner-a",
		Role:           RoleUser,
		Content:        "hello",
	}))

	got, err := GetConversation(ctx, db.DB(), "owner-a", conv.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(conv.UpdatedAt))
}

func TestListRecentMessagesOrderAndWindow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	conv := &Conversation{OwnerID: "owner-a"}
	require.NoError(t, CreateConversation(ctx, db.DB(), conv))

	for i := 0; i < 10; i++ {
		require.NoError(t, AppendMessage(ctx, db.DB(), &Message{
			ConversationID: conv.ID,
			OwnerID:        "owner-a",
			Role:           RoleUser,
			Content:        fmt.Sprintf("message %d", i),
		}))
	}

	// The window keeps the newest messages in chronological order.
	messages, err := ListRecentMessages(ctx, db.DB(), "owner-a", conv.ID, 4)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, "message 6", messages[0].Content)
	assert.Equal(t, "message 9", messages[3].Content)

	// Reads are stable across repeats.
	again, err := ListRecentMessages(ctx, db.DB(), "owner-a", conv.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, messages, again)
}

func TestConcurrentAppendsToOneConversation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	conv := &Conversation{OwnerID: "owner-a"}
	require.NoError(t, CreateConversation(ctx, db.DB(), conv))

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- AppendMessage(ctx, db.DB(), &Message{
				ConversationID: conv.ID,
				OwnerID:        "owner-a",
				Role:           RoleUser,
				Content:        fmt.Sprintf("concurrent %d", i),
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Every append landed exactly once and reads come back in a stable
	// order.
	messages, err := ListRecentMessages(ctx, db.DB(), "owner-a", conv.ID, n+1)
	require.NoError(t, err)
	require.Len(t, messages, n)

	again, err := ListRecentMessages(ctx, db.DB(), "owner-a", conv.ID, n+1)
	require.NoError(t, err)
	assert.Equal(t, messages, again)
}

func TestTaskDefaults(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &Task{OwnerID: "owner-a", Title: "Buy milk"}
	require.NoError(t, CreateTask(ctx, db.DB(), task))

	got, err := GetTask(ctx, db.DB(), "owner-a", task.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, PriorityMedium, got.Priority)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.DueDate)
}

func TestTaskOwnershipIsolation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &Task{OwnerID: "owner-a", Title: "Private"}
	require.NoError(t, CreateTask(ctx, db.DB(), task))

	_, err := GetTask(ctx, db.DB(), "owner-b", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = CompleteTask(ctx, db.DB(), "owner-b", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	title := "Hijacked"
	_, err = UpdateTask(ctx, db.DB(), "owner-b", task.ID, TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, DeleteTask(ctx, db.DB(), "owner-b", task.ID), ErrNotFound)

	// All of the above left owner A's task untouched.
	got, err := GetTask(ctx, db.DB(), "owner-a", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
	assert.Equal(t, StatusPending, got.Status)
}

func TestListTasksFilterAndCount(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		task := &Task{OwnerID: "owner-a", Title: fmt.Sprintf("task %d", i)}
		require.NoError(t, CreateTask(ctx, db.DB(), task))
		if i == 0 {
			_, err := CompleteTask(ctx, db.DB(), "owner-a", task.ID)
			require.NoError(t, err)
		}
	}

	pending, err := ListTasks(ctx, db.DB(), "owner-a", StatusPending, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	completed, err := ListTasks(ctx, db.DB(), "owner-a", StatusCompleted, 10, 0)
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	all, err := ListTasks(ctx, db.DB(), "owner-a", "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Reading again with no intervening mutation returns the identical
	// sequence.
	again, err := ListTasks(ctx, db.DB(), "owner-a", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, all, again)

	count, err := CountTasks(ctx, db.DB(), "owner-a", StatusPending)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCompleteTaskIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &Task{OwnerID: "owner-a", Title: "Repeatable"}
	require.NoError(t, CreateTask(ctx, db.DB(), task))

	first, err := CompleteTask(ctx, db.DB(), "owner-a", task.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, first.Status)

	second, err := CompleteTask(ctx, db.DB(), "owner-a", task.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, second.Status)
}

func TestUpdateTaskPartial(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	desc := "original description"
	task := &Task{OwnerID: "owner-a", Title: "Original", Description: &desc}
	require.NoError(t, CreateTask(ctx, db.DB(), task))

	priority := PriorityHigh
	updated, err := UpdateTask(ctx, db.DB(), "owner-a", task.ID, TaskUpdate{Priority: &priority})
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, updated.Priority)
	// Untouched fields survive.
	assert.Equal(t, "Original", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)
}

func TestConcurrentCreates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- CreateTask(ctx, db.DB(), &Task{
				OwnerID: "owner-a",
				Title:   fmt.Sprintf("concurrent %d", i),
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := CountTasks(ctx, db.DB(), "owner-a", "")
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

func TestDeleteTaskIsPermanent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &Task{OwnerID: "owner-a", Title: "Doomed"}
	require.NoError(t, CreateTask(ctx, db.DB(), task))

	require.NoError(t, DeleteTask(ctx, db.DB(), "owner-a", task.ID))
	_, err := GetTask(ctx, db.DB(), "owner-a", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again reports not found.
	assert.ErrorIs(t, DeleteTask(ctx, db.DB(), "owner-a", task.ID), ErrNotFound)
}
