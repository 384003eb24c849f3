package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

// ChatRepo provides data access to the append-only `chat_messages`
// table.  Messages are never edited; the only deletion supported is
// the bulk clear of a user's conversation with the AI assistant.
type ChatRepo struct {
	db *sql.DB
}

// NewChatRepo returns a new ChatRepo bound to the given database.
func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

// Insert appends a message to the log and returns its ID.
func (r *ChatRepo) Insert(ctx context.Context, sender, recipient, body string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO chat_messages (sender, recipient, body) VALUES (?,?,?)",
		sender, recipient, body)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// History returns the full conversation between two peers in
// chronological order.  Either side may be a user name or one of the
// sentinels ("admin", "ai").
func (r *ChatRepo) History(ctx context.Context, a, b string) ([]model.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sender, recipient, body, created_at FROM chat_messages
         WHERE (sender=? AND recipient=?) OR (sender=? AND recipient=?)
         ORDER BY created_at, id`,
		a, b, b, a)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	msgs := make([]model.ChatMessage, 0)
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ClearAIConversation deletes both sides of a user's conversation with
// the assistant and returns the number of removed messages.
func (r *ChatRepo) ClearAIConversation(ctx context.Context, username string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM chat_messages
         WHERE (sender=? AND recipient=?) OR (sender=? AND recipient=?)`,
		username, model.RecipientAI, model.RecipientAI, username)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InboxEntry summarizes the latest message a sender addressed to the
// admin.  Used by the admin inbox screen.
type InboxEntry struct {
	Username    string    `json:"username"`
	LastMessage string    `json:"last_message"`
	SentAt      time.Time `json:"sent_at"`
}

// AdminInbox returns one entry per user who has written to the admin,
// carrying their most recent message, newest conversations first.
func (r *ChatRepo) AdminInbox(ctx context.Context) ([]InboxEntry, error) {
	// Latest row per sender via a grouped self-join on (sender, max id).
	const q = `SELECT c.sender, c.body, c.created_at
               FROM chat_messages c
               JOIN (SELECT sender, MAX(id) AS max_id
                     FROM chat_messages WHERE recipient=?
                     GROUP BY sender) latest
                 ON latest.sender = c.sender AND latest.max_id = c.id
               ORDER BY c.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, model.RecipientAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]InboxEntry, 0)
	for rows.Next() {
		var e InboxEntry
		if err := rows.Scan(&e.Username, &e.LastMessage, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
