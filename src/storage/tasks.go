package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

const taskColumns = `id, owner_id, title, description, status, priority, due_date, created_at, updated_at`

// CreateTask persists a new task for task.OwnerID. Status always starts
// as pending.
func CreateTask(ctx context.Context, db Execer, task *Task) error {
	if task.OwnerID == "" {
		return fmt.Errorf("task owner is required")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = StatusPending
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		task.ID, task.OwnerID, task.Title, task.Description,
		task.Status, task.Priority, task.DueDate, task.CreatedAt, task.UpdatedAt)
	return err
}

// GetTask retrieves one task scoped to its owner. A missing id and an
// ownership mismatch both return ErrNotFound.
func GetTask(ctx context.Context, db sqlscan.Querier, ownerID, taskID string) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND owner_id = ?`
	var task Task
	err := sqlscan.Get(ctx, db, &task, query, taskID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListTasks returns the owner's tasks, newest first. status may be
// StatusPending, StatusCompleted, or "" / "all" for no filter.
func ListTasks(ctx context.Context, db sqlscan.Querier, ownerID, status string, limit, offset int) ([]Task, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	args := []interface{}{ownerID}
	if status != "" && status != "all" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var tasks []Task
	if err := sqlscan.Select(ctx, db, &tasks, query, args...); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountTasks counts the owner's tasks matching the status filter.
func CountTasks(ctx context.Context, db sqlscan.Querier, ownerID, status string) (int, error) {
	query := `SELECT COUNT(*) AS n FROM tasks WHERE owner_id = ?`
	args := []interface{}{ownerID}
	if status != "" && status != "all" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	var row struct {
		N int `db:"n"`
	}
	if err := sqlscan.Get(ctx, db, &row, query, args...); err != nil {
		return 0, err
	}
	return row.N, nil
}

// UpdateTask applies the non-nil fields of update to the owner's task and
// returns the updated row. Returns ErrNotFound if the task does not exist
// for that owner.
func UpdateTask(ctx context.Context, db ExecQuerier, ownerID, taskID string, update TaskUpdate) (*Task, error) {
	if update.IsEmpty() {
		return GetTask(ctx, db, ownerID, taskID)
	}

	var sets []string
	var args []interface{}
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *update.Priority)
	}
	if update.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *update.DueDate)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, taskID, ownerID)

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND owner_id = ?`
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return GetTask(ctx, db, ownerID, taskID)
}

// CompleteTask marks the owner's task completed and returns the updated
// row. Completing an already completed task is a no-op.
func CompleteTask(ctx context.Context, db ExecQuerier, ownerID, taskID string) (*Task, error) {
	query := `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND owner_id = ?`
	result, err := db.ExecContext(ctx, query, StatusCompleted, time.Now().UTC(), taskID, ownerID)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return GetTask(ctx, db, ownerID, taskID)
}

// DeleteTask removes the owner's task. The delete is hard and
// non-recoverable.
func DeleteTask(ctx context.Context, db Execer, ownerID, taskID string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, taskID, ownerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
