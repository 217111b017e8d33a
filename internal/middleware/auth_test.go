package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestJWTAuth_MissingHeader(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/get-conversations", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestJWTAuth_ValidTokenAttachesUserID(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()

	token, err := auth.GenerateAccessToken(userID, "user@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var gotUserID uuid.UUID
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/get-conversations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if gotUserID != userID {
		t.Errorf("expected user id %s in context, got %s", userID, gotUserID)
	}
}

func TestJWTAuth_WrongSecretRejected(t *testing.T) {
	issuer := NewJWTAuth("issuer-secret")
	verifier := NewJWTAuth("different-secret")

	token, err := issuer.GenerateAccessToken(uuid.New(), "user@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a token signed by another secret")
	}))

	req := httptest.NewRequest(http.MethodGet, "/get-conversations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}
