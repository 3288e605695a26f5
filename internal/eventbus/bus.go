package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"
)

// Bus is the durable transport for lifecycle events. Delivery is
// at-least-once and ordered per partition key.
type Bus interface {
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}

// BusFunc adapts a plain function to the Bus interface.
type BusFunc func(ctx context.Context, topic string, key string, payload []byte) error

func (f BusFunc) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	return f(ctx, topic, key, payload)
}

// Fanout publishes to every bus, collecting errors instead of stopping at
// the first failure.
func Fanout(buses ...Bus) Bus {
	return BusFunc(func(ctx context.Context, topic, key string, payload []byte) error {
		var errs []error
		for _, b := range buses {
			if b == nil {
				continue
			}
			if err := b.Publish(ctx, topic, key, payload); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// NopBus drops every event, optionally logging it. Used when no bus backend
// is configured.
func NopBus(logger *log.Logger) Bus {
	return BusFunc(func(_ context.Context, topic, key string, _ []byte) error {
		if logger != nil {
			logger.Printf("[Bus] drop (no backend) | topic=%s key=%s", topic, key)
		}
		return nil
	})
}

// Publisher serializes typed events and hands them to the bus.
type Publisher struct {
	bus   Bus
	topic string
	now   func() time.Time
}

func NewPublisher(bus Bus, topic string) *Publisher {
	return &Publisher{bus: bus, topic: topic, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	if p == nil || p.bus == nil {
		return errors.New("nil publisher")
	}
	if ev == nil {
		return errors.New("nil event")
	}

	b, err := json.Marshal(ev.wire(p.now()))
	if err != nil {
		return err
	}
	return p.bus.Publish(ctx, p.topic, ev.Key(), b)
}
