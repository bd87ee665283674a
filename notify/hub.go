package notify

import (
	"sync"

	"github.com/shortdrama-cli/shortdrama/log"
)

// Hub fans notifications out to its subscribers.
// A slow subscriber loses messages rather than blocking the publisher.
type Hub struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan Notification
	closed bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Notification)}
}

// Subscribe returns a channel of future notifications and a function that ends the subscription.
func (h *Hub) Subscribe(buffer int) (<-chan Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Notification, buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.next
	h.next++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
}

// Publish delivers n to every subscriber.
func (h *Hub) Publish(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	log.WithFields(log.Fields{"id": n.ID.String(), "title": n.Title}).Info("notification published")

	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
			log.Warnf("notification %q dropped for a slow subscriber", n.Title)
		}
	}
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}
