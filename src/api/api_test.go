package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/src/aisdk"
	"taskchat/src/executor"
	"taskchat/src/storage"
	"taskchat/src/taskagent"
)

// cannedModel answers every completion request with the same text.
type cannedModel struct {
	content string
}

func (m *cannedModel) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	return &aisdk.ChatCompletionResponse{
		Choices: []aisdk.Choice{{
			Message:      aisdk.Message{Role: "assistant", Content: m.content},
			FinishReason: "stop",
		}},
	}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	toolbox, err := taskagent.NewToolbox(db.DB(), nil)
	require.NoError(t, err)

	turns := executor.NewService(&executor.ServiceConfig{
		DB:      db.DB(),
		Model:   &cannedModel{content: "Happy to help."},
		Toolbox: toolbox,
	})

	server := httptest.NewServer(NewRouter(turns, db.DB(), nil))
	t.Cleanup(server.Close)
	return server, db.DB()
}

func doRequest(t *testing.T, method, url, owner string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if owner != "" {
		req.Header.Set(OwnerHeader, owner)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestMissingIdentityHeader(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// error_kind and detail sit at the top level of the body.
	body := decode[map[string]string](t, resp)
	assert.Equal(t, errorKindUnauthorized, body["error_kind"])
	assert.NotEmpty(t, body["detail"])
}

func TestHealthNeedsNoIdentity(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTaskLifecycle(t *testing.T) {
	server, _ := newTestServer(t)
	base := server.URL + "/v1/tasks"

	resp := doRequest(t, http.MethodPost, base, "user-1", map[string]any{
		"title":    "Write report",
		"priority": "high",
		"due_date": "2026-09-15",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[storage.Task](t, resp)
	assert.Equal(t, "Write report", created.Title)
	assert.Equal(t, storage.PriorityHigh, created.Priority)
	assert.Equal(t, storage.StatusPending, created.Status)
	require.NotNil(t, created.DueDate)

	resp = doRequest(t, http.MethodGet, base, "user-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[taskListResponse](t, resp)
	assert.Equal(t, 1, list.Count)
	require.Len(t, list.Tasks, 1)

	resp = doRequest(t, http.MethodPatch, base+"/"+created.ID, "user-1", map[string]any{
		"priority": "low",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[storage.Task](t, resp)
	assert.Equal(t, storage.PriorityLow, updated.Priority)

	resp = doRequest(t, http.MethodPost, base+"/"+created.ID+"/complete", "user-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	completed := decode[storage.Task](t, resp)
	assert.Equal(t, storage.StatusCompleted, completed.Status)

	resp = doRequest(t, http.MethodDelete, base+"/"+created.ID, "user-1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, base+"/"+created.ID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTaskValidation(t *testing.T) {
	server, _ := newTestServer(t)
	base := server.URL + "/v1/tasks"

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"priority": "low"}},
		{"blank title", map[string]any{"title": "   "}},
		{"bad priority", map[string]any{"title": "x", "priority": "urgent"}},
		{"bad due date", map[string]any{"title": "x", "due_date": "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, base, "user-1", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestTasksAreOwnerScoped(t *testing.T) {
	server, db := newTestServer(t)

	task := &storage.Task{OwnerID: "owner-a", Title: "Private"}
	require.NoError(t, storage.CreateTask(context.Background(), db, task))

	url := fmt.Sprintf("%s/v1/tasks/%s", server.URL, task.ID)

	resp := doRequest(t, http.MethodGet, url, "owner-b", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, url+"/complete", "owner-b", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/v1/tasks", "owner-b", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[taskListResponse](t, resp)
	assert.Equal(t, 0, list.Count)
}

func TestChatTurnAndHistory(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/v1/chat", "user-1", map[string]any{
		"message": "Hello there",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	turn := decode[executor.TurnResponse](t, resp)
	assert.Equal(t, "Happy to help.", turn.Response)
	require.NotEmpty(t, turn.ConversationID)

	resp = doRequest(t, http.MethodGet,
		server.URL+"/v1/conversations/"+turn.ConversationID+"/messages", "user-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[struct {
		Messages []storage.Message `json:"messages"`
	}](t, resp)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, storage.RoleUser, history.Messages[0].Role)
	assert.Equal(t, "Hello there", history.Messages[0].Content)

	// Another owner cannot read the conversation.
	resp = doRequest(t, http.MethodGet,
		server.URL+"/v1/conversations/"+turn.ConversationID+"/messages", "user-2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatValidation(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/v1/chat", "user-1", map[string]any{
		"message": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[apiError](t, resp)
	assert.Equal(t, executor.KindValidationError, body.Kind)
	assert.NotEmpty(t, body.Detail)
}
