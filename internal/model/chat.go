package model

import "time"

// Chat peer sentinels.  Messages addressed to RecipientAdmin reach the
// support inbox; RecipientAI marks a conversation with the assistant.
const (
    RecipientAdmin = "admin"
    RecipientAI    = "ai"
)

// ChatMessage is a single message in the `chat_messages` table.  The
// log is append-only; the only deletion supported is the bulk clear of
// a user's AI conversation.
type ChatMessage struct {
    ID        uint64    // chat_messages.id
    Sender    string    // chat_messages.sender
    Recipient string    // chat_messages.recipient
    Body      string    // chat_messages.body
    CreatedAt time.Time // chat_messages.created_at
}
