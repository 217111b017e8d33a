package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"personachat-backend/internal/models"
)

type conversationRepository interface {
	Create(ctx context.Context, c *models.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error)
	Touch(ctx context.Context, id uuid.UUID) error
}

type chatRepository interface {
	Append(ctx context.Context, chat *models.Chat) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*models.Chat, error)
	CountByConversation(ctx context.Context, conversationID uuid.UUID) (int, error)
}

type personalityRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Personality, error)
}

type eventPublisher interface {
	PublishChatEvent(ctx context.Context, userID uuid.UUID, event models.ChatEvent)
}

// ConversationService orchestrates the send-message cycle and conversation
// creation. Listing endpoints talk to the repositories directly.
type ConversationService struct {
	conversations conversationRepository
	chats         chatRepository
	personalities personalityRepository
	completion    CompletionClient
	events        eventPublisher
}

func NewConversationService(
	conversations conversationRepository,
	chats chatRepository,
	personalities personalityRepository,
	completion CompletionClient,
	events eventPublisher,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		chats:         chats,
		personalities: personalities,
		completion:    completion,
		events:        events,
	}
}

// SendMessage appends the user's message, submits the full history plus the
// personality's instructions to the completion API, appends the reply and
// returns it with the conversation's new message count.
//
// The user's row is written before the upstream call on purpose: a transient
// API failure must not lose the user's input, so an upstream error leaves an
// unanswered message in the log and surfaces as an UpstreamError.
func (s *ConversationService) SendMessage(ctx context.Context, userID uuid.UUID, req models.SendMessageRequest) (*models.SendMessageResponse, error) {
	fieldErrors := map[string][]string{}
	if strings.TrimSpace(req.ConversationID) == "" {
		fieldErrors["conversation_id"] = append(fieldErrors["conversation_id"], "The conversation id field is required.")
	}
	if strings.TrimSpace(req.Message) == "" {
		fieldErrors["message"] = append(fieldErrors["message"], "The message field is required.")
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string][]string{
			"conversation_id": {"The selected conversation id is invalid."},
		}}
	}

	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Message: "Conversation not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	// A conversation owned by someone else is indistinguishable from an
	// absent one.
	if conversation.UserID != userID {
		return nil, &NotFoundError{Message: "Conversation not found"}
	}

	personality, err := s.personalities.GetByID(ctx, conversation.PersonalityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personality: %w", err)
	}

	userChat := &models.Chat{
		ConversationID: conversation.ID,
		UserID:         userID,
		Message:        req.Message,
		IsUser:         true,
	}
	if err := s.chats.Append(ctx, userChat); err != nil {
		return nil, fmt.Errorf("failed to append user message: %w", err)
	}

	history, err := s.chats.ListByConversation(ctx, conversation.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load message history: %w", err)
	}

	messages := make([]models.CompletionMessage, 0, len(history)+1)
	messages = append(messages, models.CompletionMessage{
		Role:    "system",
		Content: personality.Instructions,
	})
	for _, chat := range history {
		role := "assistant"
		if chat.IsUser {
			role = "user"
		}
		messages = append(messages, models.CompletionMessage{Role: role, Content: chat.Message})
	}

	reply, err := s.completion.Complete(ctx, messages)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			return nil, err
		}
		return nil, &UpstreamError{Message: err.Error()}
	}

	assistantChat := &models.Chat{
		ConversationID: conversation.ID,
		UserID:         userID,
		Message:        reply,
		IsUser:         false,
	}
	if err := s.chats.Append(ctx, assistantChat); err != nil {
		return nil, fmt.Errorf("failed to append assistant reply: %w", err)
	}

	if err := s.conversations.Touch(ctx, conversation.ID); err != nil {
		log.Printf("Failed to touch conversation %s: %v", conversation.ID, err)
	}

	if s.events != nil {
		s.events.PublishChatEvent(ctx, userID, models.ChatEvent{
			Type:           "chat.message",
			ConversationID: conversation.ID,
			Chat:           assistantChat,
		})
	}

	count, err := s.chats.CountByConversation(ctx, conversation.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	return &models.SendMessageResponse{Reply: reply, MessageCount: count}, nil
}

// CreateConversation validates the request and creates a conversation owned
// by the acting user. A personality_id that does not reference an existing
// personality is a validation failure, not a 404.
func (s *ConversationService) CreateConversation(ctx context.Context, userID uuid.UUID, req models.NewConversationRequest) (*models.Conversation, error) {
	fieldErrors := map[string][]string{}
	if strings.TrimSpace(req.Title) == "" {
		fieldErrors["title"] = append(fieldErrors["title"], "The title field is required.")
	}
	if strings.TrimSpace(req.PersonalityID) == "" {
		fieldErrors["personality_id"] = append(fieldErrors["personality_id"], "The personality id field is required.")
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	personalityID, err := uuid.Parse(req.PersonalityID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string][]string{
			"personality_id": {"The selected personality id is invalid."},
		}}
	}

	if _, err := s.personalities.GetByID(ctx, personalityID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ValidationError{Fields: map[string][]string{
				"personality_id": {"The selected personality id is invalid."},
			}}
		}
		return nil, fmt.Errorf("failed to load personality: %w", err)
	}

	conversation := &models.Conversation{
		UserID:        userID,
		PersonalityID: personalityID,
		Title:         req.Title,
	}
	if err := s.conversations.Create(ctx, conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return conversation, nil
}
