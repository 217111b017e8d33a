package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personachat-backend/internal/config"
	"personachat-backend/internal/database"
	"personachat-backend/internal/handlers"
	"personachat-backend/internal/middleware"
	"personachat-backend/internal/repository"
	"personachat-backend/internal/router"
	"personachat-backend/internal/services"
	"personachat-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting PersonaChat Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	personalityRepo := repository.NewPersonalityRepo(pool)
	conversationRepo := repository.NewConversationRepo(pool)
	chatRepo := repository.NewChatRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClients.Sessions, jwtAuth)
	completionClient := services.NewOpenAIClient(
		cfg.OpenAIBaseURL,
		cfg.OpenAIAPIKey,
		cfg.OpenAIModel,
		time.Duration(cfg.CompletionTimeout)*time.Second,
	)
	eventPublisher := services.NewRedisEventPublisher(redisClients.PubSub)
	conversationService := services.NewConversationService(
		conversationRepo,
		chatRepo,
		personalityRepo,
		completionClient,
		eventPublisher,
	)
	log.Println("✓ Completion client initialized")

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	chatHandler := handlers.NewChatHandler(conversationService, chatRepo)
	conversationHandler := handlers.NewConversationHandler(conversationService, conversationRepo)
	personalityHandler := handlers.NewPersonalityHandler(personalityRepo)

	// ──── Step 5: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		chatHandler,
		conversationHandler,
		personalityHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := newHTTPServer(cfg, r)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ PersonaChat Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  WS: ws://localhost:%s/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

// newHTTPServer sizes the server timeouts around the configured completion
// timeout: send-message holds the response open for the whole upstream call,
// so WriteTimeout must exceed it or slow completions reset the connection
// after both rows are already persisted.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	completionTimeout := time.Duration(cfg.CompletionTimeout) * time.Second

	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: completionTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
