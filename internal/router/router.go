package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"personachat-backend/internal/handlers"
	"personachat-backend/internal/middleware"
	"personachat-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	conversationHandler *handlers.ConversationHandler,
	personalityHandler *handlers.PersonalityHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Auth Routes (public) ────
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/logout", authHandler.Logout)
		})
	})

	// ──── Conversation Routes (authenticated) ────
	r.Group(func(r chi.Router) {
		r.Use(jwtAuth.Middleware)

		r.Post("/send-message", chatHandler.SendMessage)
		r.Post("/new-conversation", conversationHandler.NewConversation)
		r.Get("/get-conversations", conversationHandler.GetConversations)
		r.Get("/get-messages/{conversationID}/message-count", chatHandler.GetMessageCount)
		r.Get("/get-messages/{conversationID}", chatHandler.GetMessages)
		r.Get("/personalities", personalityHandler.List)
	})

	// ──── WebSocket (token auth via query param) ────
	r.Get("/ws", wsHub.HandleWebSocket)

	return r
}
