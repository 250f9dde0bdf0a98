package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry tracks live controllers by session id. It replaces the global
// timer-handle/flag variables of older designs: the registry owns lookups,
// each controller owns its own state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Controller
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Controller)}
}

// Put registers a controller.
func (r *Registry) Put(c *Controller) {
	r.mu.Lock()
	r.sessions[c.ID] = c
	r.mu.Unlock()
}

// Get returns the controller for id, or false.
func (r *Registry) Get(id uuid.UUID) (*Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.sessions[id]
	return c, ok
}

// Remove unregisters and closes the controller for id.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	c, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		c.Close()
	}
}

// Evict removes and closes every controller whose window ended more than
// retention ago, and reports how many went. Results stay resolvable for the
// retention period past window close, the same horizon as the Redis mirrors.
func (r *Registry) Evict(now time.Time, retention time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, c := range r.sessions {
		if now.After(c.Window.End.Add(retention)) {
			c.Close()
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// CloseAll stops every live countdown. Called on shutdown so no timer can
// fire auto-submit after teardown began.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.sessions {
		c.Close()
		delete(r.sessions, id)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
