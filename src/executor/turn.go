package executor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"taskchat/src/agent"
	"taskchat/src/aisdk"
	"taskchat/src/llmclient"
	"taskchat/src/storage"
)

// Fallback texts returned when reasoning cannot produce a final answer.
const (
	fallbackUnavailable  = "I'm having trouble responding right now. Please try again in a moment."
	fallbackLoopExceeded = "I wasn't able to finish that request within the allowed number of steps. Please check your tasks and try again with a simpler request."
)

// TurnRequest is one user message addressed to a conversation. An empty
// ConversationID starts a new conversation owned by OwnerID.
type TurnRequest struct {
	OwnerID        string
	ConversationID string
	Message        string
}

// TurnResponse is the outcome of a successfully completed turn. Fallback is
// set when Response is a canned apology rather than model output.
type TurnResponse struct {
	ConversationID  string              `json:"conversation_id"`
	Response        string              `json:"response"`
	ToolInvocations []*agent.Invocation `json:"tool_invocations,omitempty"`
	Fallback        bool                `json:"fallback,omitempty"`
}

// ProcessTurn runs exactly one chat turn: resolve the conversation, persist
// the user message, replay recent history to the model, execute any tool
// calls it requests, and persist the assistant reply. Reasoning failures
// after the user message is stored degrade to a fallback response instead
// of an error, so a retry of the same turn never loses the user's input.
func (s *Service) ProcessTurn(ctx context.Context, req *TurnRequest) (*TurnResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, validationError("message must not be empty", ErrEmptyMessage)
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, validationError("message exceeds 2000 characters", ErrMessageTooLong)
	}
	if req.OwnerID == "" {
		return nil, validationError("owner id is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	conv, err := s.resolveConversation(ctx, req, message)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With("owner_id", req.OwnerID, "conversation_id", conv.ID)

	userMsg := &storage.Message{
		ConversationID: conv.ID,
		OwnerID:        req.OwnerID,
		Role:           storage.RoleUser,
		Content:        message,
	}
	if err := storage.AppendMessage(ctx, s.db, userMsg); err != nil {
		return nil, storeError("failed to store user message", err)
	}

	history, err := storage.ListRecentMessages(ctx, s.db, req.OwnerID, conv.ID, s.historyLimit)
	if err != nil {
		return nil, storeError("failed to load conversation history", err)
	}
	messages := s.buildModelMessages(history)
	tools := agent.ToChatTools(s.toolbox.Tools())

	var invocations []*agent.Invocation
	var finalText string
	loopExceeded := false

	for iteration := 0; ; iteration++ {
		resp, err := s.model.CreateChatCompletion(ctx, &aisdk.ChatCompletionRequest{
			Messages:   messages,
			Tools:      tools,
			ToolChoice: "auto",
			User:       req.OwnerID,
		})
		var reply aisdk.Message
		if err == nil {
			if len(resp.Choices) == 0 {
				err = llmclient.ErrEmptyResponse
			} else {
				reply = resp.Choices[0].Message
				// A final reply with no text is as useless as no reply.
				if len(reply.ToolCalls) == 0 && strings.TrimSpace(reply.Content) == "" {
					err = llmclient.ErrEmptyResponse
				}
			}
		}
		if err != nil {
			kind := classifyReasoningFailure(ctx, err)
			logger.Warn("reasoning failed, returning fallback",
				"error", err, "kind", kind, "iteration", iteration)
			// The user message is already stored; the fallback itself is
			// deliberately not, so a retried turn replays cleanly.
			return &TurnResponse{
				ConversationID:  conv.ID,
				Response:        fallbackUnavailable,
				ToolInvocations: invocations,
				Fallback:        true,
			}, nil
		}

		if len(reply.ToolCalls) == 0 {
			finalText = reply.Content
			break
		}
		if iteration >= s.maxToolIterations {
			logger.Warn("tool iteration bound reached", "iterations", iteration)
			loopExceeded = true
			finalText = fallbackLoopExceeded
			break
		}

		messages = append(messages, &aisdk.Message{
			Role:      "assistant",
			Content:   reply.Content,
			ToolCalls: reply.ToolCalls,
		})
		for i := range reply.ToolCalls {
			call := &reply.ToolCalls[i]
			inv := s.toolbox.Invoke(ctx, req.OwnerID, call)
			invocations = append(invocations, inv)
			messages = append(messages, &aisdk.Message{
				Role:       "tool",
				Content:    inv.FeedbackContent(),
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}

	assistantMsg := &storage.Message{
		ConversationID: conv.ID,
		OwnerID:        req.OwnerID,
		Role:           storage.RoleAssistant,
		Content:        finalText,
		ToolCalls:      marshalInvocations(invocations),
	}
	if err := storage.AppendMessage(ctx, s.db, assistantMsg); err != nil {
		return nil, storeError("failed to store assistant message", err)
	}

	logger.Info("turn completed",
		"tool_invocations", len(invocations), "loop_exceeded", loopExceeded)
	return &TurnResponse{
		ConversationID:  conv.ID,
		Response:        finalText,
		ToolInvocations: invocations,
		Fallback:        loopExceeded,
	}, nil
}

// resolveConversation loads the addressed conversation under the owner's
// scope, or creates a fresh one titled after the opening message.
func (s *Service) resolveConversation(ctx context.Context, req *TurnRequest, message string) (*storage.Conversation, error) {
	if req.ConversationID != "" {
		conv, err := storage.GetConversation(ctx, s.db, req.OwnerID, req.ConversationID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, notFoundError("conversation not found", ErrConversationAccess)
			}
			return nil, storeError("failed to load conversation", err)
		}
		return conv, nil
	}
	conv := &storage.Conversation{
		OwnerID: req.OwnerID,
		Title:   deriveTitle(message),
	}
	if err := storage.CreateConversation(ctx, s.db, conv); err != nil {
		return nil, storeError("failed to create conversation", err)
	}
	return conv, nil
}

// buildModelMessages converts stored history into the model request,
// prefixed by the system prompt. Persisted tool records are not replayed;
// the assistant text alone carries the outcome forward.
func (s *Service) buildModelMessages(history []storage.Message) []*aisdk.Message {
	messages := make([]*aisdk.Message, 0, len(history)+1)
	if s.systemPrompt != "" {
		messages = append(messages, &aisdk.Message{Role: "system", Content: s.systemPrompt})
	}
	for i := range history {
		messages = append(messages, &aisdk.Message{
			Role:    history[i].Role,
			Content: history[i].Content,
		})
	}
	return messages
}

func classifyReasoningFailure(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		return KindTurnDeadlineExceeded
	case errors.Is(err, llmclient.ErrTimeout):
		return KindReasoningTimeout
	case errors.Is(err, llmclient.ErrUnavailable):
		return KindReasoningUnavailable
	default:
		return KindReasoningUnavailable
	}
}

func marshalInvocations(invocations []*agent.Invocation) *string {
	if len(invocations) == 0 {
		return nil
	}
	raw, err := json.Marshal(invocations)
	if err != nil {
		return nil
	}
	record := string(raw)
	return &record
}

func deriveTitle(message string) string {
	const maxTitle = 60
	title := message
	if utf8.RuneCountInString(title) > maxTitle {
		runes := []rune(title)
		title = strings.TrimSpace(string(runes[:maxTitle-3])) + "..."
	}
	return title
}
