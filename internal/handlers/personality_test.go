package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"personachat-backend/internal/factory"
	"personachat-backend/internal/models"
)

func TestListPersonalities_ReturnsAll(t *testing.T) {
	var personalities []*models.Personality
	for i := 0; i < 4; i++ {
		personalities = append(personalities, factory.Personality())
	}
	h := NewPersonalityHandler(newFakePersonalityStore(personalities...))

	// The catalog is not scoped per user, any authenticated caller sees it all
	req := asUser(httptest.NewRequest(http.MethodGet, "/personalities", nil), uuid.New())
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var listed []*models.Personality
	if err := json.NewDecoder(rr.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listed) != 4 {
		t.Fatalf("expected 4 personalities, got %d", len(listed))
	}

	byID := make(map[uuid.UUID]bool)
	for _, p := range listed {
		byID[p.ID] = true
	}
	for _, p := range personalities {
		if !byID[p.ID] {
			t.Errorf("personality %s missing from listing", p.ID)
		}
	}
}

func TestListPersonalities_EmptyIsArray(t *testing.T) {
	h := NewPersonalityHandler(newFakePersonalityStore())

	req := asUser(httptest.NewRequest(http.MethodGet, "/personalities", nil), uuid.New())
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}
