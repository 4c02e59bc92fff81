// Package api exposes the chat orchestrator and task store over HTTP.
// Callers are identified by a trusted X-User-ID header; every route is
// scoped to that owner.
package api

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"

	"taskchat/src/executor"
)

const defaultMaxBodyBytes = 64 * 1024

type handlers struct {
	turns  *executor.Service
	db     *sql.DB
	logger *slog.Logger
}

// NewRouter builds the HTTP handler tree. The health check is the only
// route that does not require an identity header.
func NewRouter(turns *executor.Service, db *sql.DB, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &handlers{turns: turns, db: db, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)

	owned := http.NewServeMux()
	owned.HandleFunc("POST /v1/chat", h.handleChat)
	owned.HandleFunc("GET /v1/conversations", h.handleListConversations)
	owned.HandleFunc("GET /v1/conversations/{conversation_id}/messages", h.handleListMessages)
	owned.HandleFunc("POST /v1/tasks", h.handleCreateTask)
	owned.HandleFunc("GET /v1/tasks", h.handleListTasks)
	owned.HandleFunc("GET /v1/tasks/{task_id}", h.handleGetTask)
	owned.HandleFunc("PATCH /v1/tasks/{task_id}", h.handleUpdateTask)
	owned.HandleFunc("POST /v1/tasks/{task_id}/complete", h.handleCompleteTask)
	owned.HandleFunc("DELETE /v1/tasks/{task_id}", h.handleDeleteTask)
	mux.Handle("/v1/", requireOwner(owned))

	return requestLogging(logger, limitBody(defaultMaxBodyBytes, mux))
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, errorKindInternal, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
