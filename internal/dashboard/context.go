package dashboard

import "sync"

// ActiveContext is the currently selected project or rollup for a page
// session. For projects DirName carries the requested directory name; for
// rollups Name carries the rollup name.
type ActiveContext struct {
	Kind    Kind   `json:"kind"`
	DirName string `json:"dir_name,omitempty"`
	Name    string `json:"name,omitempty"`
}

// ContextSlot owns the session's active context. It starts empty and is
// overwritten wholesale on each successful sync; a failed sync never
// touches it.
type ContextSlot struct {
	mu      sync.RWMutex
	current *ActiveContext
}

// NewContextSlot creates an empty slot.
func NewContextSlot() *ContextSlot {
	return &ContextSlot{}
}

// Set replaces the active context.
func (s *ContextSlot) Set(ctx *ActiveContext) {
	s.mu.Lock()
	s.current = ctx
	s.mu.Unlock()
}

// Current returns the active context, or nil before the first successful
// sync.
func (s *ContextSlot) Current() *ActiveContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
