package events

import (
	"sync"

	"go.uber.org/zap"
)

// Publisher receives committed workflow events.
type Publisher interface {
	Publish(event WorkflowEvent)
}

// Hub fans events out to in-process subscribers and the webhook notifier.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan WorkflowEvent
	nextID      uint64
	closed      bool

	notifier *WebhookNotifier
	logger   *zap.Logger
}

func NewHub(notifier *WebhookNotifier, logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[uint64]chan WorkflowEvent),
		notifier:    notifier,
		logger:      logger,
	}
}

// Subscribe returns a buffered event channel and a function that releases it.
func (h *Hub) Subscribe(buffer int) (<-chan WorkflowEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan WorkflowEvent, buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subscribers[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
	}
}

func (h *Hub) Publish(event WorkflowEvent) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	for id, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			h.logger.Warn("dropping workflow event for slow subscriber",
				zap.Uint64("subscriber", id), zap.String("event_id", event.ID))
		}
	}

	// Deliveries start under the lock so Close never waits on a WaitGroup that is still growing.
	if h.notifier != nil {
		h.notifier.Notify(event)
	}
	h.mu.RUnlock()
}

// SubscriberCount reports the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close releases all subscribers and waits for in-flight webhook deliveries.
func (h *Hub) Close() {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		for id, ch := range h.subscribers {
			delete(h.subscribers, id)
			close(ch)
		}
	}
	h.mu.Unlock()

	if h.notifier != nil {
		h.notifier.Wait()
	}
}
