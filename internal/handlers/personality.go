package handlers

import (
	"context"
	"net/http"

	"personachat-backend/internal/models"
)

type PersonalityHandler struct {
	personalities personalityLister
}

type personalityLister interface {
	List(ctx context.Context) ([]*models.Personality, error)
}

func NewPersonalityHandler(personalities personalityLister) *PersonalityHandler {
	return &PersonalityHandler{personalities: personalities}
}

// List returns the whole catalog; personalities are shared reference data,
// not scoped per user.
func (h *PersonalityHandler) List(w http.ResponseWriter, r *http.Request) {
	personalities, err := h.personalities.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if personalities == nil {
		personalities = []*models.Personality{}
	}

	writeJSON(w, http.StatusOK, personalities)
}
