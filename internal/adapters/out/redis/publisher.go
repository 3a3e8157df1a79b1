package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"orderdesk/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// Publisher implements ports.EventPublisher over Redis pub/sub.
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a publisher over client.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends event on the global channel and on the order's room channel.
func (p *Publisher) Publish(ctx context.Context, event ports.ChangeEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	_, err = p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, GlobalChannel, payload)
		pipe.Publish(ctx, RoomChannel(event.OrderID), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// NewClient opens a Redis client and checks the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
