package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/metrics"
)

// streamChannel names the topic for a stream session. One topic per session.
func streamChannel(streamID uuid.UUID) string {
	return "stream:" + streamID.String()
}

// RedisEventBus implements repository.EventBus using Redis Pub/Sub so events
// reach viewers connected to any API instance.
type RedisEventBus struct {
	client *redis.Client
}

// NewRedisEventBus creates a new Redis-backed event bus.
func NewRedisEventBus(client *redis.Client) *RedisEventBus {
	return &RedisEventBus{
		client: client,
	}
}

// PublishStreamStatus publishes a statusChanged event on the stream's topic.
func (b *RedisEventBus) PublishStreamStatus(ctx context.Context, streamID uuid.UUID, isLive bool) error {
	return b.publish(ctx, streamID, repository.StreamEvent{
		Name:   repository.EventStatusChanged,
		IsLive: isLive,
	})
}

// PublishUserBanned publishes a userBanned event on the stream's topic.
func (b *RedisEventBus) PublishUserBanned(ctx context.Context, streamID uuid.UUID, subject string) error {
	return b.publish(ctx, streamID, repository.StreamEvent{
		Name:    repository.EventUserBanned,
		Subject: subject,
	})
}

func (b *RedisEventBus) publish(ctx context.Context, streamID uuid.UUID, event repository.StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal stream event: %w", err)
	}

	if err := b.client.Publish(ctx, streamChannel(streamID), data).Err(); err != nil {
		metrics.StreamEventsPublishedTotal.WithLabelValues(event.Name, metrics.PublishStatusError).Inc()
		return fmt.Errorf("failed to publish stream event: %w", err)
	}

	metrics.StreamEventsPublishedTotal.WithLabelValues(event.Name, metrics.PublishStatusSuccess).Inc()
	return nil
}

// Subscription is an active subscription to one stream's topic.
type Subscription struct {
	sub    *redis.PubSub
	Ch     <-chan repository.StreamEvent
	cancel context.CancelFunc
}

// Close unsubscribes and closes the subscription.
func (s *Subscription) Close() {
	s.cancel()
	_ = s.sub.Close()
}

// Subscribe subscribes to events for one stream session. Events arriving while
// the receiver is slow are dropped rather than blocking the fan-out goroutine.
// Call Close when done.
func (b *RedisEventBus) Subscribe(ctx context.Context, streamID uuid.UUID) *Subscription {
	sub := b.client.Subscribe(ctx, streamChannel(streamID))

	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan repository.StreamEvent, 16)

	go func() {
		defer close(ch)
		msgCh := sub.Channel()
		for {
			select {
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				var event repository.StreamEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.Warn("failed to unmarshal stream event",
						slog.String("error", err.Error()),
					)
					continue
				}
				select {
				case ch <- event:
				default:
				}
			case <-subCtx.Done():
				return
			}
		}
	}()

	return &Subscription{
		sub:    sub,
		Ch:     ch,
		cancel: cancel,
	}
}

// Compile-time interface check.
var _ repository.EventBus = (*RedisEventBus)(nil)
