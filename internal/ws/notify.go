package ws

import (
	"context"
	"encoding/json"

	"applyflow/internal/eventbus"
)

type notification struct {
	Type    string          `json:"type"`
	Topic   string          `json:"topic"`
	Key     string          `json:"key"`
	Payload json.RawMessage `json:"payload"`
}

// BroadcastBus adapts the hub to the event bus interface so lifecycle
// events can be fanned out to websocket clients alongside the stream.
func BroadcastBus(h *Hub) eventbus.Bus {
	return eventbus.BusFunc(func(_ context.Context, topic, key string, payload []byte) error {
		if h == nil {
			return nil
		}
		msg, err := json.Marshal(notification{
			Type:    "application_event",
			Topic:   topic,
			Key:     key,
			Payload: payload,
		})
		if err != nil {
			return err
		}
		h.Broadcast(msg)
		return nil
	})
}
