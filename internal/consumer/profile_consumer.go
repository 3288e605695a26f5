package consumer

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Recomputer regenerates one user's recommendation set.
type Recomputer interface {
	Recompute(ctx context.Context, userID string) error
}

// ProfileConsumer tails the profile-change stream and triggers a
// recommendation recompute whenever a scoring-relevant section of a
// profile changes.
type ProfileConsumer struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	rec      Recomputer
	logger   *log.Logger
}

func NewProfileConsumer(client *redis.Client, stream, group, consumerName string, rec Recomputer, logger *log.Logger) *ProfileConsumer {
	if logger == nil {
		logger = log.Default()
	}
	return &ProfileConsumer{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: consumerName,
		rec:      rec,
		logger:   logger,
	}
}

type profileChange struct {
	EventType  string `json:"eventType"`
	EntityType string `json:"entityType"`
	UserID     string `json:"userId"`
}

var recomputeEntities = map[string]struct{}{
	"SKILL":      {},
	"EXPERIENCE": {},
	"EDUCATION":  {},
}

func shouldRecompute(eventType, entityType string) bool {
	if _, ok := recomputeEntities[strings.ToUpper(entityType)]; !ok {
		return false
	}
	et := strings.ToUpper(eventType)
	return strings.HasSuffix(et, "_ADDED") ||
		strings.HasSuffix(et, "_UPDATED") ||
		strings.HasSuffix(et, "_DELETED")
}

// Run blocks until ctx is cancelled. Errors are logged and retried; the
// consumer never takes the process down.
func (c *ProfileConsumer) Run(ctx context.Context) {
	if c == nil || c.client == nil {
		if c != nil && c.logger != nil {
			c.logger.Printf("[ProfileConsumer] redis unavailable, consumer disabled")
		}
		return
	}

	if err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err(); err != nil {
		if !strings.Contains(err.Error(), "BUSYGROUP") {
			c.logger.Printf("[ProfileConsumer] group create failed | stream=%s group=%s err=%v", c.stream, c.group, err)
		}
	}

	c.logger.Printf("[ProfileConsumer] started | stream=%s group=%s consumer=%s", c.stream, c.group, c.consumer)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.consumer,
			Streams:  []string{c.stream, ">"},
			Count:    16,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			c.logger.Printf("[ProfileConsumer] read failed | err=%v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
			continue
		}

		for _, st := range streams {
			for _, msg := range st.Messages {
				c.handle(ctx, msg)
			}
		}
	}
}

func (c *ProfileConsumer) handle(ctx context.Context, msg redis.XMessage) {
	// Acked regardless of outcome: a recompute that fails here will run
	// again on the next profile change or on the next cold read.
	defer func() {
		if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
			c.logger.Printf("[ProfileConsumer] ack failed | id=%s err=%v", msg.ID, err)
		}
	}()

	raw, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Printf("[ProfileConsumer] message without payload | id=%s", msg.ID)
		return
	}

	var ev profileChange
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		c.logger.Printf("[ProfileConsumer] bad payload | id=%s err=%v", msg.ID, err)
		return
	}

	if ev.UserID == "" || !shouldRecompute(ev.EventType, ev.EntityType) {
		return
	}

	if err := c.rec.Recompute(ctx, ev.UserID); err != nil {
		c.logger.Printf("[ProfileConsumer] recompute failed | user=%s event=%s err=%v", ev.UserID, ev.EventType, err)
		return
	}
	c.logger.Printf("[ProfileConsumer] recomputed | user=%s event=%s entity=%s", ev.UserID, ev.EventType, ev.EntityType)
}
