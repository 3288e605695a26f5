package eventbus

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// StreamBus publishes events to a Redis stream per topic. A stream appends
// entries in XAdd order, so ordering per partition key holds for any
// single-reader consumer.
type StreamBus struct {
	client *redis.Client
}

func NewStreamBus(client *redis.Client) *StreamBus {
	return &StreamBus{client: client}
}

func (b *StreamBus) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	if b == nil || b.client == nil {
		return errors.New("stream bus unavailable")
	}
	return b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: map[string]any{
			"key":     key,
			"payload": payload,
		},
	}).Err()
}
