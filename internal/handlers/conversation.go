package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"personachat-backend/internal/middleware"
	"personachat-backend/internal/models"
)

type ConversationHandler struct {
	service       conversationService
	conversations conversationLister
}

type conversationLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error)
}

func NewConversationHandler(service conversationService, conversations conversationLister) *ConversationHandler {
	return &ConversationHandler{service: service, conversations: conversations}
}

func (h *ConversationHandler) NewConversation(w http.ResponseWriter, r *http.Request) {
	var req models.NewConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	conversation, err := h.service.CreateConversation(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, conversation)
}

func (h *ConversationHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	conversations, err := h.conversations.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if conversations == nil {
		conversations = []*models.Conversation{}
	}

	writeJSON(w, http.StatusOK, conversations)
}
