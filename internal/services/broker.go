package services

import (
	"context"
	"encoding/json"
	"fmt"

	"lensbook-backend/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Broker fans message inserts out over Redis pub/sub. Every instance
// publishes the rows it inserts and replays the rows every instance
// published into its local hub, so feeds stay live across a multi-instance
// deployment.
type Broker struct {
	rdb     *redis.Client
	channel string
	hub     *WSHub
}

// NewBroker creates a broker over the given Redis client
func NewBroker(rdb *redis.Client, channel string, hub *WSHub) *Broker {
	return &Broker{
		rdb:     rdb,
		channel: channel,
		hub:     hub,
	}
}

// NewRedisClient connects a Redis client from a URL
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// PublishInsert publishes one inserted message row to the channel
func (b *Broker) PublishInsert(ctx context.Context, msg *models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Run subscribes to the channel and routes every insert into the hub until
// ctx is cancelled.
func (b *Broker) Run(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	log.Info().Str("channel", b.channel).Msg("Realtime broker listening")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg models.ChatMessage
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				log.Error().Err(err).Msg("Failed to decode broker payload")
				continue
			}
			b.hub.Broadcast(&msg)
		}
	}
}
