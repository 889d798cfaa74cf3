// Package preview holds display handles: in-memory references that let the
// page render an accepted image for the lifetime of its session. A handle is
// acquired when an image is accepted and must be released when the image is
// superseded or the session resets; nothing is ever written to disk.
package preview

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry is the in-memory display-handle store. All methods are safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]entry
}

type entry struct {
	data      []byte
	mediaType string
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]entry)}
}

// Acquire registers the image bytes under a fresh handle key.
func (r *Registry) Acquire(data []byte, mediaType string) string {
	key := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[key] = entry{data: data, mediaType: mediaType}
	return key
}

// Get returns the bytes and media type for a live handle.
func (r *Registry) Get(key string) ([]byte, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.handles[key]
	if !ok {
		return nil, "", fmt.Errorf("preview not found")
	}
	return e.data, e.mediaType, nil
}

// Release drops the handle. Releasing an already-released handle is a no-op
// so every exit path can release unconditionally.
func (r *Registry) Release(key string) {
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, key)
}

// Len reports the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}
