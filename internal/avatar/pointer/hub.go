package pointer

import "sync"

// Hub is a Source that fans pointer moves out to registered listeners.
type Hub struct {
	mu        sync.Mutex
	listeners map[uint64]func(x, y int)
	next      uint64
	lastX     int
	lastY     int
	seen      bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[uint64]func(x, y int))}
}

// AddMoveListener implements Source. The returned function is idempotent.
func (h *Hub) AddMoveListener(fn func(x, y int)) (remove func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.listeners[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Move delivers a pointer position to every listener. Listeners run on the
// caller's goroutine, outside the hub's lock.
func (h *Hub) Move(x, y int) {
	h.mu.Lock()
	h.lastX, h.lastY, h.seen = x, y, true
	fns := make([]func(x, y int), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(x, y)
	}
}

// Last returns the most recent position and whether there has been one.
func (h *Hub) Last() (x, y int, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastX, h.lastY, h.seen
}

// Listeners returns the number of registered listeners.
func (h *Hub) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
