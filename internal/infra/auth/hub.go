package auth

import (
	"sync"

	"github.com/xavierca1/prodoc/internal/entity"
)

// Hub distribui eventos de sessão para os assinantes, na goroutine de quem emite.
type Hub struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]func(entity.SessionEvent)
}

func NewHub() *Hub {
	return &Hub{handlers: make(map[int]func(entity.SessionEvent))}
}

func (h *Hub) Subscribe(fn func(entity.SessionEvent)) entity.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.handlers[id] = fn
	return &subscription{hub: h, id: id}
}

func (h *Hub) Emit(ev entity.SessionEvent) {
	h.mu.RLock()
	handlers := make([]func(entity.SessionEvent), 0, len(h.handlers))
	for _, fn := range h.handlers {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

type subscription struct {
	hub  *Hub
	id   int
	once sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.handlers, s.id)
		s.hub.mu.Unlock()
	})
}
