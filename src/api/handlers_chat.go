package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"taskchat/src/executor"
	"taskchat/src/storage"
)

type chatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// handleChat runs one chat turn. Reasoning fallbacks still return 200; the
// response's fallback flag tells the caller what happened.
func (h *handlers) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorKindInvalidRequest, "malformed JSON body")
		return
	}

	resp, err := h.turns.ProcessTurn(r.Context(), &executor.TurnRequest{
		OwnerID:        ownerID(r),
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})
	if err != nil {
		h.logger.Error("chat turn failed", "error", err, "kind", executor.ErrorKind(err))
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) handleListConversations(w http.ResponseWriter, r *http.Request) {
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 50, 200)

	conversations, err := storage.ListConversations(r.Context(), h.db, ownerID(r), limit)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	if conversations == nil {
		conversations = []storage.Conversation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

func (h *handlers) handleListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("conversation_id")
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 50, 500)

	// Verify ownership first so an unknown and a foreign conversation are
	// indistinguishable to the caller.
	if _, err := storage.GetConversation(r.Context(), h.db, ownerID(r), conversationID); err != nil {
		writeMappedError(w, err)
		return
	}
	messages, err := storage.ListRecentMessages(r.Context(), h.db, ownerID(r), conversationID, limit)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	if messages == nil {
		messages = []storage.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func parsePositiveInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}
