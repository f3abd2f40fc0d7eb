package platform

import (
	"fmt"
	"sync"
)

// Registry maps window labels to handles. Only bootstrap code resolves labels;
// everything downstream is handed a Handle.
type Registry struct {
	mu      sync.RWMutex
	windows map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{windows: make(map[string]Handle)}
}

// Register records a window under label. Labels are unique.
func (r *Registry) Register(label string, h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.windows[label]; exists {
		return fmt.Errorf("window %q already registered", label)
	}
	r.windows[label] = h
	return nil
}

// Resolve returns the handle registered under label.
func (r *Registry) Resolve(label string) (Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.windows[label]
	if !ok {
		return Handle{}, fmt.Errorf("no window registered as %q", label)
	}
	return h, nil
}
