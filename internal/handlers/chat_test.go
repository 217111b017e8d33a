package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"personachat-backend/internal/factory"
	"personachat-backend/internal/middleware"
	"personachat-backend/internal/models"
	"personachat-backend/internal/services"
)

// In-memory stores satisfying both the service and handler interfaces, shared
// by the handler tests in this package.

type fakeConversationStore struct {
	conversations map[uuid.UUID]*models.Conversation
}

func newFakeConversationStore(conversations ...*models.Conversation) *fakeConversationStore {
	byID := make(map[uuid.UUID]*models.Conversation)
	for _, c := range conversations {
		byID[c.ID] = c
	}
	return &fakeConversationStore{conversations: byID}
}

func (s *fakeConversationStore) Create(ctx context.Context, c *models.Conversation) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.conversations[c.ID] = c
	return nil
}

func (s *fakeConversationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	c, ok := s.conversations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (s *fakeConversationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	var out []*models.Conversation
	for _, c := range s.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeConversationStore) Touch(ctx context.Context, id uuid.UUID) error { return nil }

type fakeChatStore struct {
	chats []*models.Chat
}

func (s *fakeChatStore) Append(ctx context.Context, chat *models.Chat) error {
	chat.ID = uuid.New()
	chat.CreatedAt = time.Now().Add(time.Duration(len(s.chats)) * time.Millisecond)
	s.chats = append(s.chats, chat)
	return nil
}

func (s *fakeChatStore) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*models.Chat, error) {
	var out []*models.Chat
	for _, c := range s.chats {
		if c.ConversationID == conversationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeChatStore) CountByConversation(ctx context.Context, conversationID uuid.UUID) (int, error) {
	count := 0
	for _, c := range s.chats {
		if c.ConversationID == conversationID {
			count++
		}
	}
	return count, nil
}

type fakePersonalityStore struct {
	personalities map[uuid.UUID]*models.Personality
}

func newFakePersonalityStore(personalities ...*models.Personality) *fakePersonalityStore {
	byID := make(map[uuid.UUID]*models.Personality)
	for _, p := range personalities {
		byID[p.ID] = p
	}
	return &fakePersonalityStore{personalities: byID}
}

func (s *fakePersonalityStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Personality, error) {
	p, ok := s.personalities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (s *fakePersonalityStore) List(ctx context.Context) ([]*models.Personality, error) {
	var out []*models.Personality
	for _, p := range s.personalities {
		out = append(out, p)
	}
	return out, nil
}

type fakeCompletion struct {
	reply string
	err   error
}

func (f *fakeCompletion) Complete(ctx context.Context, messages []models.CompletionMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func postJSON(path string, body interface{}) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSendMessage_ValidationErrors(t *testing.T) {
	svc := services.NewConversationService(newFakeConversationStore(), &fakeChatStore{}, newFakePersonalityStore(), &fakeCompletion{}, nil)
	h := NewChatHandler(svc, &fakeChatStore{})

	req := asUser(postJSON("/send-message", map[string]string{}), uuid.New())
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
	}

	var fields map[string][]string
	if err := json.NewDecoder(rr.Body).Decode(&fields); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got := fields["conversation_id"]; len(got) != 1 || got[0] != "The conversation id field is required." {
		t.Errorf("unexpected conversation_id errors: %v", got)
	}
	if got := fields["message"]; len(got) != 1 || got[0] != "The message field is required." {
		t.Errorf("unexpected message errors: %v", got)
	}
}

func TestSendMessage_ReturnsReplyAndCount(t *testing.T) {
	user := factory.User()
	personality := factory.Personality()
	conversation := factory.Conversation(func(c *models.Conversation) {
		c.UserID = user.ID
		c.PersonalityID = personality.ID
	})

	chats := &fakeChatStore{}
	svc := services.NewConversationService(
		newFakeConversationStore(conversation),
		chats,
		newFakePersonalityStore(personality),
		&fakeCompletion{reply: "some reply"},
		nil,
	)
	h := NewChatHandler(svc, chats)

	req := asUser(postJSON("/send-message", map[string]string{
		"conversation_id": conversation.ID.String(),
		"message":         "Some Message",
	}), user.ID)
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var resp models.SendMessageResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Reply != "some reply" {
		t.Errorf("expected reply %q, got %q", "some reply", resp.Reply)
	}
	// Fresh conversation: the user's message plus the assistant reply
	if resp.MessageCount != 2 {
		t.Errorf("expected messageCount 2, got %d", resp.MessageCount)
	}
}

func TestSendMessage_UpstreamFailure(t *testing.T) {
	user := factory.User()
	personality := factory.Personality()
	conversation := factory.Conversation(func(c *models.Conversation) {
		c.UserID = user.ID
		c.PersonalityID = personality.ID
	})

	chats := &fakeChatStore{}
	svc := services.NewConversationService(
		newFakeConversationStore(conversation),
		chats,
		newFakePersonalityStore(personality),
		&fakeCompletion{err: &services.UpstreamError{Message: "completion API returned HTTP 503"}},
		nil,
	)
	h := NewChatHandler(svc, chats)

	req := asUser(postJSON("/send-message", map[string]string{
		"conversation_id": conversation.ID.String(),
		"message":         "Some Message",
	}), user.ID)
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, rr.Code)
	}
	// The user's message survives the failed upstream call
	if len(chats.chats) != 1 || !chats.chats[0].IsUser {
		t.Errorf("expected the user row to remain persisted, got %d rows", len(chats.chats))
	}
}

func TestGetMessageCount(t *testing.T) {
	conversation := factory.Conversation()
	chats := &fakeChatStore{}
	for _, c := range factory.Chats(5, func(c *models.Chat) { c.ConversationID = conversation.ID }) {
		chats.chats = append(chats.chats, c)
	}
	// Rows in other conversations must not count
	chats.chats = append(chats.chats, factory.Chat())

	h := NewChatHandler(nil, chats)

	req := httptest.NewRequest(http.MethodGet, "/get-messages/"+conversation.ID.String()+"/message-count", nil)
	req = withURLParam(asUser(req, uuid.New()), "conversationID", conversation.ID.String())
	rr := httptest.NewRecorder()
	h.GetMessageCount(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]int
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["count"] != 5 {
		t.Errorf("expected count 5, got %d", resp["count"])
	}
}

func TestGetMessages_ReturnsConversationChatsInOrder(t *testing.T) {
	conversation := factory.Conversation()
	chats := &fakeChatStore{}
	for _, c := range factory.Chats(3, func(c *models.Chat) { c.ConversationID = conversation.ID }) {
		chats.chats = append(chats.chats, c)
	}
	chats.chats = append(chats.chats, factory.Chat())

	h := NewChatHandler(nil, chats)

	req := httptest.NewRequest(http.MethodGet, "/get-messages/"+conversation.ID.String(), nil)
	req = withURLParam(asUser(req, uuid.New()), "conversationID", conversation.ID.String())
	rr := httptest.NewRecorder()
	h.GetMessages(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp struct {
		Chats []*models.Chat `json:"chats"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Chats) != 3 {
		t.Fatalf("expected 3 chats, got %d", len(resp.Chats))
	}
	for i, chat := range resp.Chats {
		if chat.ConversationID != conversation.ID {
			t.Errorf("chat %d belongs to a different conversation", i)
		}
		if i > 0 && chat.CreatedAt.Before(resp.Chats[i-1].CreatedAt) {
			t.Errorf("chats out of creation order at index %d", i)
		}
	}
}

func TestGetMessages_SameTimestampKeepsInsertionOrder(t *testing.T) {
	conversation := factory.Conversation()
	stamp := time.Now()
	chats := &fakeChatStore{}
	for i, message := range []string{"first", "second", "third"} {
		chats.chats = append(chats.chats, factory.Chat(func(c *models.Chat) {
			c.ConversationID = conversation.ID
			c.Message = message
			c.IsUser = i%2 == 0
			c.CreatedAt = stamp
		}))
	}

	h := NewChatHandler(nil, chats)

	req := httptest.NewRequest(http.MethodGet, "/get-messages/"+conversation.ID.String(), nil)
	req = withURLParam(asUser(req, uuid.New()), "conversationID", conversation.ID.String())
	rr := httptest.NewRecorder()
	h.GetMessages(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp struct {
		Chats []*models.Chat `json:"chats"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := []string{"first", "second", "third"}
	for i, chat := range resp.Chats {
		if chat.Message != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], chat.Message)
		}
	}
}

func TestGetMessages_InvalidConversationID(t *testing.T) {
	h := NewChatHandler(nil, &fakeChatStore{})

	req := httptest.NewRequest(http.MethodGet, "/get-messages/not-a-uuid", nil)
	req = withURLParam(asUser(req, uuid.New()), "conversationID", "not-a-uuid")
	rr := httptest.NewRecorder()
	h.GetMessages(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}
