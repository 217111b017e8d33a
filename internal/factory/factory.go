// Package factory builds fully-populated chat records for tests. Each builder
// returns sensible defaults and applies override funcs in order, so a test
// states only the fields it cares about.
package factory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"personachat-backend/internal/models"
)

func User(overrides ...func(*models.User)) *models.User {
	u := &models.User{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		FullName:  "Test User",
		CreatedAt: time.Now(),
	}
	for _, fn := range overrides {
		fn(u)
	}
	return u
}

func Personality(overrides ...func(*models.Personality)) *models.Personality {
	p := &models.Personality{
		ID:           uuid.New(),
		Name:         "Helpful Assistant",
		Instructions: "You are a helpful assistant.",
		CreatedAt:    time.Now(),
	}
	for _, fn := range overrides {
		fn(p)
	}
	return p
}

func Conversation(overrides ...func(*models.Conversation)) *models.Conversation {
	now := time.Now()
	c := &models.Conversation{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		PersonalityID: uuid.New(),
		Title:         "Test Conversation",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, fn := range overrides {
		fn(c)
	}
	return c
}

func Chat(overrides ...func(*models.Chat)) *models.Chat {
	c := &models.Chat{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		UserID:         uuid.New(),
		Message:        "Lorem ipsum dolor sit amet.",
		IsUser:         true,
		CreatedAt:      time.Now(),
	}
	for _, fn := range overrides {
		fn(c)
	}
	return c
}

// Chats builds n chat rows with strictly increasing timestamps so creation
// order is unambiguous.
func Chats(n int, overrides ...func(*models.Chat)) []*models.Chat {
	base := time.Now()
	chats := make([]*models.Chat, 0, n)
	for i := 0; i < n; i++ {
		offset := time.Duration(i) * time.Second
		chat := Chat(append([]func(*models.Chat){func(c *models.Chat) {
			c.Message = fmt.Sprintf("Message %d", i+1)
			c.CreatedAt = base.Add(offset)
		}}, overrides...)...)
		chats = append(chats, chat)
	}
	return chats
}
