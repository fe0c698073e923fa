// Package storage implements the optional transcript store. The router
// has no dependency on it; the gateway records transcripts when storage
// is enabled and runs fully without it (guest mode).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// Conversation is one stored conversation.
type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoredMessage is one stored chat message.
type StoredMessage struct {
	ID             string
	ConversationID string
	Role           string
	Content        string

	// Provider and Model record which upstream produced an assistant
	// message. Empty for user messages.
	Provider  string
	Model     string
	CreatedAt time.Time
}

// TranscriptStore persists conversations and their messages in SQLite.
type TranscriptStore struct {
	db *sql.DB

	// now is injectable for tests
	now func() time.Time
}

// NewTranscriptStore opens (or creates) the store at the given path.
// ":memory:" yields an ephemeral store.
func NewTranscriptStore(path string) (*TranscriptStore, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &TranscriptStore{
		db:  db,
		now: time.Now,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the tables if they don't exist.
func (s *TranscriptStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id),
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateConversation creates a conversation and returns its id.
func (s *TranscriptStore) CreateConversation(ctx context.Context, title string) (string, error) {
	id := uuid.NewString()
	now := s.now().UnixMilli()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, title, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}
	return id, nil
}

// AppendMessage stores one message and bumps the conversation's
// last-updated timestamp. The conversation row is created on first use
// so externally minted conversation ids work without a prior
// CreateConversation call.
func (s *TranscriptStore) AppendMessage(ctx context.Context, msg StoredMessage) (string, error) {
	if msg.ConversationID == "" {
		return "", fmt.Errorf("conversation id cannot be empty")
	}

	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := s.now().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (id, title, created_at, updated_at) VALUES (?, '', ?, ?)
		 ON CONFLICT (id) DO UPDATE SET updated_at = excluded.updated_at`,
		msg.ConversationID, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to upsert conversation: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, provider, model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, msg.ConversationID, msg.Role, msg.Content, msg.Provider, msg.Model, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return id, nil
}

// Messages returns a conversation's messages in insertion order.
func (s *TranscriptStore) Messages(ctx context.Context, conversationID string) ([]StoredMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, provider, model, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY created_at, id`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []StoredMessage
	for rows.Next() {
		var m StoredMessage
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.Provider, &m.Model, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.CreatedAt = time.UnixMilli(createdAt)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Conversations returns all conversations, most recently updated first.
func (s *TranscriptStore) Conversations(ctx context.Context) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at
		 FROM conversations ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var c Conversation
		var createdAt, updatedAt int64
		if err := rows.Scan(&c.ID, &c.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		c.CreatedAt = time.UnixMilli(createdAt)
		c.UpdatedAt = time.UnixMilli(updatedAt)
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// Close closes the underlying database.
func (s *TranscriptStore) Close() error {
	return s.db.Close()
}
