// Package redis carries the desk's realtime channel over Redis pub/sub.
//
// Every change is published on the global channel "orders:events" and on the
// order's room channel "orders:room:{id}". A desk always listens to the global
// channel; joining a room subscribes to the room channel as well.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	GlobalChannel = "orders:events"
	roomPrefix    = "orders:room:"

	defaultPingInterval = 2 * time.Second
	eventBuffer         = 256
)

// ErrNotConnected is returned when joining or leaving a room before Connect.
var ErrNotConnected = errors.New("realtime channel is not connected")

// RoomChannel returns the pub/sub channel of one order.
func RoomChannel(orderID string) string { return roomPrefix + orderID }

// Channel implements ports.RealtimeChannel over Redis pub/sub.
type Channel struct {
	client       *redis.Client
	pingInterval time.Duration
	logger       *zap.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
}

// NewChannel creates a channel over client. pingInterval 0 uses the default.
func NewChannel(client *redis.Client, pingInterval time.Duration, logger *zap.Logger) *Channel {
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	return &Channel{
		client:       client,
		pingInterval: pingInterval,
		logger:       logger.With(zap.String("component", "redis-channel")),
	}
}

// Connect subscribes to the global channel. The returned stream ends when ctx
// ends or the subscription closes; Connectivity reports lost and regained
// server reachability.
func (c *Channel) Connect(ctx context.Context, creds ports.Credentials) (*ports.Stream, error) {
	if creds.AdminID == "" {
		return nil, errs.NewValueIsRequiredError("adminId")
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	pubsub := c.client.Subscribe(ctx, GlobalChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	c.mu.Lock()
	if c.pubsub != nil {
		_ = c.pubsub.Close()
	}
	c.pubsub = pubsub
	c.mu.Unlock()

	events := make(chan ports.ChangeEvent, eventBuffer)
	connectivity := make(chan bool, 1)

	go c.pump(ctx, pubsub, events)
	go c.watch(ctx, connectivity)

	c.logger.Info("connected", zap.String("adminId", creds.AdminID))
	return &ports.Stream{Events: events, Connectivity: connectivity}, nil
}

// JoinRoom subscribes to the order's room channel.
func (c *Channel) JoinRoom(ctx context.Context, orderID string) error {
	ps, err := c.current()
	if err != nil {
		return err
	}
	return ps.Subscribe(ctx, RoomChannel(orderID))
}

// LeaveRoom unsubscribes from the order's room channel.
func (c *Channel) LeaveRoom(ctx context.Context, orderID string) error {
	ps, err := c.current()
	if err != nil {
		return err
	}
	return ps.Unsubscribe(ctx, RoomChannel(orderID))
}

func (c *Channel) current() (*redis.PubSub, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pubsub == nil {
		return nil, ErrNotConnected
	}
	return c.pubsub, nil
}

func (c *Channel) pump(ctx context.Context, pubsub *redis.PubSub, events chan<- ports.ChangeEvent) {
	defer close(events)
	defer func() {
		c.mu.Lock()
		if c.pubsub == pubsub {
			c.pubsub = nil
		}
		c.mu.Unlock()
		_ = pubsub.Close()
	}()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ev ports.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				c.logger.Warn("dropping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// watch pings the server and reports reachability changes.
func (c *Channel) watch(ctx context.Context, connectivity chan<- bool) {
	defer close(connectivity)

	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	up := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, c.pingInterval)
		reachable := c.client.Ping(pingCtx).Err() == nil
		cancel()
		if reachable == up {
			continue
		}
		up = reachable

		select {
		case connectivity <- up:
		case <-ctx.Done():
			return
		}
	}
}
