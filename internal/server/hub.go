package server

import "sync"

// Hub fans frames out to connected clients. Slow clients miss frames
// instead of stalling the tick loop.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Client]chan Frame
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Client]chan Frame)}
}

func (h *Hub) Register(c *Client) chan Frame {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.subscribers[c]; ok {
		close(old)
	}
	ch := make(chan Frame, 8)
	h.subscribers[c] = ch
	return ch
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[c]; ok {
		close(ch)
		delete(h.subscribers, c)
	}
}

func (h *Hub) Broadcast(f Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- f:
		default:
		}
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, c)
	}
}
