package eventbus

import (
	"context"
	"log"
	"time"
)

// Relay collects events staged during a storage transaction and dispatches
// them only once the transaction has committed. If the transaction rolls
// back the staged events are discarded; if dispatch fails after commit the
// failure is logged and swallowed, never undoing the state change.
type Relay struct {
	pub    *Publisher
	logger *log.Logger
	staged []Event
}

func NewRelay(pub *Publisher, logger *log.Logger) *Relay {
	return &Relay{pub: pub, logger: logger}
}

func (r *Relay) Stage(ev Event) {
	if r == nil || ev == nil {
		return
	}
	r.staged = append(r.staged, ev)
}

func (r *Relay) Discard() {
	if r == nil {
		return
	}
	r.staged = nil
}

// DispatchCommitted publishes everything staged so far. Call it only after
// the enclosing transaction has durably committed. The request context may
// already be done, so dispatch runs on a detached context with its own
// deadline.
func (r *Relay) DispatchCommitted(ctx context.Context) {
	if r == nil || len(r.staged) == 0 {
		return
	}
	events := r.staged
	r.staged = nil

	dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	for _, ev := range events {
		if r.pub == nil {
			continue
		}
		if err := r.pub.Publish(dispatchCtx, ev); err != nil {
			if r.logger != nil {
				r.logger.Printf("[Relay] publish failed | type=%s key=%s err=%v", ev.Kind(), ev.Key(), err)
			}
			continue
		}
		if r.logger != nil {
			r.logger.Printf("[Relay] published | type=%s key=%s", ev.Kind(), ev.Key())
		}
	}
}
