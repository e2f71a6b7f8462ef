package server

import (
	"sync"

	"github.com/san-kum/mazeviz/internal/trace"
)

// Hub fans navigator frames out to event stream subscribers. Slow
// subscribers miss frames instead of blocking the navigator.
type Hub struct {
	mu   sync.Mutex
	subs map[chan trace.Frame]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan trace.Frame]struct{})}
}

func (h *Hub) Render(f trace.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// Subscribe returns a frame channel and the function that releases it.
func (h *Hub) Subscribe(buffer int) (<-chan trace.Frame, func()) {
	ch := make(chan trace.Frame, buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

var _ trace.Renderer = (*Hub)(nil)
