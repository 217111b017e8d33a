package models

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	PersonalityID uuid.UUID `json:"personality_id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewConversationRequest carries ids as strings so that a missing field and a
// malformed id produce distinct validation messages.
type NewConversationRequest struct {
	Title         string `json:"title"`
	PersonalityID string `json:"personality_id"`
}
