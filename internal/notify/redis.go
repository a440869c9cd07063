package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"codego/internal/observability"

	"github.com/redis/go-redis/v9"
)

// BroadcastChannel receives notifications that are not tied to a user.
const BroadcastChannel = "notifications:broadcast"

// UserChannel returns the Redis channel name for a user's notifications.
func UserChannel(userID string) string {
	return fmt.Sprintf("notifications:user:%s", userID)
}

// RedisPublisher publishes notifications as JSON into Redis channels so other
// processes of the same user can show them.
type RedisPublisher struct {
	rdb    *redis.Client
	logger *observability.ClientLogger
}

// NewRedisPublisher creates a publisher. A nil client makes every call a no-op.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, logger: observability.NewClientLogger("notify", nil)}
}

// Publish sends n to the user's channel, or the broadcast channel when n has no user.
func (p *RedisPublisher) Publish(ctx context.Context, n Notification) error {
	if p == nil || p.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	channel := BroadcastChannel
	if n.UserID != "" {
		channel = UserChannel(n.UserID)
	}
	return p.rdb.Publish(ctx, channel, string(payload)).Err()
}

// Notify implements Notifier. Publish failures are logged, never returned.
func (p *RedisPublisher) Notify(ctx context.Context, n Notification) {
	if err := p.Publish(ctx, n); err != nil {
		p.logger.LogWarn(ctx, "publish notification failed", err)
	}
}

// Subscribe delivers notifications published for userID and broadcasts until ctx is done.
func (p *RedisPublisher) Subscribe(ctx context.Context, userID string, onMessage func(Notification)) error {
	if p == nil || p.rdb == nil {
		return nil
	}
	channels := []string{BroadcastChannel}
	if userID != "" {
		channels = append(channels, UserChannel(userID))
	}
	sub := p.rdb.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe notifications: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var n Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					p.logger.LogWarn(ctx, "discarding malformed notification", err)
					continue
				}
				onMessage(n)
			}
		}
	}()

	return nil
}
