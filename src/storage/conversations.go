package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// CreateConversation creates a new conversation owned by conversation.OwnerID.
func CreateConversation(ctx context.Context, db Execer, conversation *Conversation) error {
	if conversation.OwnerID == "" {
		return fmt.Errorf("conversation owner is required")
	}
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	if conversation.Title == "" {
		conversation.Title = "New Conversation"
	}
	now := time.Now().UTC()
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = now
	}
	if conversation.UpdatedAt.IsZero() {
		conversation.UpdatedAt = now
	}

	query := `INSERT INTO conversations (id, owner_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, conversation.ID, conversation.OwnerID, conversation.Title, conversation.CreatedAt, conversation.UpdatedAt)
	return err
}

// GetConversation retrieves a conversation by id, scoped to its owner.
// Returns ErrNotFound if it does not exist for that owner.
func GetConversation(ctx context.Context, db sqlscan.Querier, ownerID, conversationID string) (*Conversation, error) {
	query := `SELECT id, owner_id, title, created_at, updated_at FROM conversations WHERE id = ? AND owner_id = ?`
	var conv Conversation
	err := sqlscan.Get(ctx, db, &conv, query, conversationID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns the owner's conversations, most recently
// updated first.
func ListConversations(ctx context.Context, db sqlscan.Querier, ownerID string, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, owner_id, title, created_at, updated_at FROM conversations WHERE owner_id = ? ORDER BY updated_at DESC LIMIT ?`
	var conversations []Conversation
	if err := sqlscan.Select(ctx, db, &conversations, query, ownerID, limit); err != nil {
		return nil, err
	}
	return conversations, nil
}

// AppendMessage persists one message and bumps the conversation's
// updated_at in a single transaction, so concurrent appends to the same
// conversation are serialized by the conversation row. Returns ErrNotFound
// if the conversation does not exist and ErrForbidden if it belongs to a
// different owner. The write is committed before the call returns.
func AppendMessage(ctx context.Context, db *sql.DB, message *Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var conv struct {
		OwnerID string `db:"owner_id"`
	}
	err = sqlscan.Get(ctx, tx, &conv, `SELECT owner_id FROM conversations WHERE id = ?`, message.ConversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if conv.OwnerID != message.OwnerID {
		return ErrForbidden
	}

	insert := `INSERT INTO messages (id, conversation_id, owner_id, role, content, tool_calls, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert, message.ID, message.ConversationID, message.OwnerID, message.Role, message.Content, message.ToolCalls, message.CreatedAt); err != nil {
		return err
	}

	bump := `UPDATE conversations SET updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, bump, message.CreatedAt, message.ConversationID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListRecentMessages returns up to limit of the conversation's newest
// messages in ascending created_at order. Rowid breaks created_at ties in
// insertion order, so repeated reads never reorder.
func ListRecentMessages(ctx context.Context, db sqlscan.Querier, ownerID, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, conversation_id, owner_id, role, content, tool_calls, created_at
		FROM messages
		WHERE conversation_id = ? AND owner_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
	var messages []Message
	if err := sqlscan.Select(ctx, db, &messages, query, conversationID, ownerID, limit); err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
