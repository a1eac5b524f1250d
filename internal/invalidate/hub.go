// Package invalidate signals downstream consumers that an event's data
// changed. It is the pipeline's step-7 contract: the presentation layer
// subscribes per event and refetches on notification.
package invalidate

import (
	"log/slog"
	"sync"
	"time"
)

// Change describes one invalidation, keyed by event scope.
type Change struct {
	EventID int64     `json:"eventId"`
	Table   string    `json:"table"`
	At      time.Time `json:"at"`
}

type subscriber struct {
	eventID int64
	ch      chan Change
}

// Hub fans changes out to per-event subscribers. Sends never block: a slow
// subscriber misses notifications rather than stalling mutations.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]*subscriber
	nextID int64
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[int64]*subscriber),
		logger: logger,
	}
}

// Subscribe registers for changes scoped to eventID. The returned cancel func
// must be called to release the subscription; it closes the channel.
func (h *Hub) Subscribe(eventID int64) (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	sub := &subscriber{eventID: eventID, ch: make(chan Change, 16)}
	h.subs[id] = sub

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if s, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Emit notifies all subscribers of the change's event.
func (h *Hub) Emit(c Change) {
	if c.At.IsZero() {
		c.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.eventID != c.EventID {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			h.logger.Debug("invalidation dropped for slow subscriber",
				"event_id", c.EventID, "table", c.Table)
		}
	}
}

// SubscriberCount reports active subscriptions, for diagnostics.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
