package queue

import "sync"

// CancellationRegistry is a thread-safe set of cancelled correlation keys.
// The front-end writes to it; the worker consults it before and during
// processing. It is deliberately not persisted: cancellation is a narrow
// post-submission affordance and only applies within the current process
// lifetime.
type CancellationRegistry struct {
	mu   sync.RWMutex
	keys map[int64]struct{}
}

// NewCancellationRegistry creates an empty registry.
func NewCancellationRegistry() *CancellationRegistry {
	return &CancellationRegistry{keys: make(map[int64]struct{})}
}

// MarkCancelled records a cancellation request for the given key.
func (r *CancellationRegistry) MarkCancelled(key int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[key] = struct{}{}
}

// IsCancelled reports whether the key has a pending cancellation request.
func (r *CancellationRegistry) IsCancelled(key int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.keys[key]
	return ok
}

// Consume removes the key once the worker has honored the cancellation.
func (r *CancellationRegistry) Consume(key int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, key)
}
