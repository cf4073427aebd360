package events

import (
	"fmt"
	"sync"
)

// registry is the handler table shared by both dispatchers.
type registry struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

func newRegistry() registry {
	return registry{handlers: make(map[string][]EventHandler)}
}

func (r *registry) Subscribe(eventType string, handler EventHandler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = append(r.handlers[eventType], handler)
	return nil
}

func (r *registry) Unsubscribe(eventType string, handler EventHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers, exists := r.handlers[eventType]
	if !exists {
		return nil
	}

	kept := make([]EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != handler {
			kept = append(kept, h)
		}
	}

	if len(kept) == 0 {
		delete(r.handlers, eventType)
	} else {
		r.handlers[eventType] = kept
	}
	return nil
}

// snapshot returns the handlers for eventType in subscription order.
func (r *registry) snapshot(eventType string) []EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handlers := r.handlers[eventType]
	out := make([]EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h.CanHandle(eventType) {
			out = append(out, h)
		}
	}
	return out
}
