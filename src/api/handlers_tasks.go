package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskchat/src/storage"
	"taskchat/src/taskagent/toolsutil"
)

var validate = validator.New()

type createTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"due_date,omitempty"`
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date,omitempty"`
}

type taskListResponse struct {
	Count int            `json:"count"`
	Tasks []storage.Task `json:"tasks"`
}

func (h *handlers) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorKindInvalidRequest, "malformed JSON body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, errorKindInvalidRequest, err.Error())
		return
	}
	dueDate, err := toolsutil.ParseDueDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorKindInvalidRequest, "due_date must be an ISO 8601 date or datetime")
		return
	}

	task := &storage.Task{
		OwnerID:  ownerID(r),
		Title:    req.Title,
		Priority: req.Priority,
		DueDate:  dueDate,
	}
	if req.Description != "" {
		task.Description = &req.Description
	}
	if err := storage.CreateTask(r.Context(), h.db, task); err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *handlers) handleListTasks(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", "all":
		status = ""
	case storage.StatusPending, storage.StatusCompleted:
	default:
		writeError(w, http.StatusBadRequest, errorKindInvalidRequest, "status must be all, pending, or completed")
		return
	}
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 20, 100)
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}

	tasks, err := storage.ListTasks(r.Context(), h.db, ownerID(r), status, limit, offset)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	count, err := storage.CountTasks(r.Context(), h.db, ownerID(r), status)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	if tasks == nil {
		tasks = []storage.Task{}
	}
	writeJSON(w, http.StatusOK, taskListResponse{Count: count, Tasks: tasks})
}

func (h *handlers) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := storage.GetTask(r.Context(), h.db, ownerID(r), r.PathValue("task_id"))
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handlers) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorKindInvalidRequest, "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, errorKindInvalidRequest, err.Error())
		return
	}

	update := storage.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, errorKindInvalidRequest, "title must not be blank")
			return
		}
		update.Title = &trimmed
	}
	if req.DueDate != nil {
		dueDate, err := toolsutil.ParseDueDate(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, errorKindInvalidRequest, "due_date must be an ISO 8601 date or datetime")
			return
		}
		update.DueDate = dueDate
	}
	if update.IsEmpty() {
		writeError(w, http.StatusBadRequest, errorKindInvalidRequest, "no fields to update")
		return
	}

	task, err := storage.UpdateTask(r.Context(), h.db, ownerID(r), r.PathValue("task_id"), update)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handlers) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := storage.CompleteTask(r.Context(), h.db, ownerID(r), r.PathValue("task_id"))
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handlers) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := storage.DeleteTask(r.Context(), h.db, ownerID(r), r.PathValue("task_id")); err != nil {
		writeMappedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
