package session

import "sync"

// Registry enforces single-session identity: at most one live session
// may hold a given username. It is shared by all connection workers and
// guarded by a mutex.
type Registry struct {
	mu     sync.Mutex
	active map[string]*Session
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*Session)}
}

// acquire claims username for owner. Returns false when another session
// already holds it; claiming a username the owner already holds is a
// no-op success.
func (r *Registry) acquire(username string, owner *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if holder, ok := r.active[username]; ok {
		return holder == owner
	}
	r.active[username] = owner
	return true
}

// release drops the claim on username if owner still holds it.
func (r *Registry) release(username string, owner *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active[username] == owner {
		delete(r.active, username)
	}
}

// Active returns the number of usernames currently claimed.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
