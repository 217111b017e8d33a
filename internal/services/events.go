package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"personachat-backend/internal/models"
)

// RedisEventPublisher pushes chat events onto the per-user pub/sub channel
// the websocket hub subscribes to. Publishing is best effort; a dropped event
// never fails the request that produced it.
type RedisEventPublisher struct {
	redis *redis.Client
}

func NewRedisEventPublisher(redisClient *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{redis: redisClient}
}

func (p *RedisEventPublisher) PublishChatEvent(ctx context.Context, userID uuid.UUID, event models.ChatEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal chat event: %v", err)
		return
	}

	if err := p.redis.Publish(ctx, "chat_events:"+userID.String(), payload).Err(); err != nil {
		log.Printf("Failed to publish chat event for user %s: %v", userID, err)
	}
}
