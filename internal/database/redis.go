package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients holds the two connections the backend needs: Sessions stores
// refresh tokens, PubSub carries chat events to the websocket hub.
type RedisClients struct {
	Sessions *redis.Client
	PubSub   *redis.Client
}

func NewRedisClients(redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionClient := redis.NewClient(opt)
	if err := sessionClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis (sessions): %w", err)
	}

	// PubSub gets its own connection so subscriptions never starve commands
	pubsubOpt := *opt
	pubsubClient := redis.NewClient(&pubsubOpt)
	if err := pubsubClient.Ping(ctx).Err(); err != nil {
		sessionClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (pubsub): %w", err)
	}

	return &RedisClients{
		Sessions: sessionClient,
		PubSub:   pubsubClient,
	}, nil
}

func (r *RedisClients) Close() {
	r.Sessions.Close()
	r.PubSub.Close()
}
