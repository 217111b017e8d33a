package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a single authored message within a conversation. IsUser is true for
// human-authored rows, false for assistant replies. Rows are append-only;
// creation order is conversational order.
type Chat struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	UserID         uuid.UUID `json:"user_id"`
	Message        string    `json:"message"`
	IsUser         bool      `json:"is_user"`
	CreatedAt      time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type SendMessageResponse struct {
	Reply        string `json:"reply"`
	MessageCount int    `json:"messageCount"`
}

// CompletionMessage is one entry of the history submitted to the completion
// API. Role is "system", "user" or "assistant".
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatEvent is pushed over the websocket hub when an assistant reply lands.
type ChatEvent struct {
	Type           string    `json:"type"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Chat           *Chat     `json:"chat"`
}
