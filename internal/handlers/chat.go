package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"personachat-backend/internal/middleware"
	"personachat-backend/internal/models"
)

type ChatHandler struct {
	service conversationService
	chats   chatReader
}

type conversationService interface {
	SendMessage(ctx context.Context, userID uuid.UUID, req models.SendMessageRequest) (*models.SendMessageResponse, error)
	CreateConversation(ctx context.Context, userID uuid.UUID, req models.NewConversationRequest) (*models.Conversation, error)
}

type chatReader interface {
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*models.Chat, error)
	CountByConversation(ctx context.Context, conversationID uuid.UUID) (int, error)
}

func NewChatHandler(service conversationService, chats chatReader) *ChatHandler {
	return &ChatHandler{service: service, chats: chats}
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	resp, err := h.service.SendMessage(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) GetMessageCount(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid conversation ID", r))
		return
	}

	count, err := h.chats.CountByConversation(r.Context(), conversationID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid conversation ID", r))
		return
	}

	chats, err := h.chats.ListByConversation(r.Context(), conversationID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if chats == nil {
		chats = []*models.Chat{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}
