package track

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrClosed   = errors.New("track: registry closed")
	ErrReleased = errors.New("track: handle already released")
)

// Registry holds the bytes behind every live handle so they can be served by
// URL. It is safe for concurrent use.
type Registry struct {
	prefix string

	mu      sync.RWMutex
	docs    map[string][]byte
	handles map[string]*Handle
	seq     uint64
	closed  bool
}

// NewRegistry creates an empty registry whose handle URLs start with prefix.
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix:  strings.TrimSuffix(prefix, "/"),
		docs:    make(map[string][]byte),
		handles: make(map[string]*Handle),
	}
}

// Create stores doc and returns the handle that owns it.
func (r *Registry) Create(doc string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	r.seq++
	id := strconv.FormatUint(r.seq, 10)
	h := &Handle{id: id, url: fmt.Sprintf("%s/%s.vtt", r.prefix, id), registry: r}
	r.docs[id] = []byte(doc)
	r.handles[id] = h
	return h, nil
}

// returns the bytes for a live handle id
func (r *Registry) Lookup(id string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	return doc, ok
}

// number of live handles
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// Close releases every outstanding handle and refuses new ones.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for id, h := range r.handles {
		h.released = true
		delete(r.handles, id)
		delete(r.docs, id)
	}
}

func (r *Registry) release(h *Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.released {
		return ErrReleased
	}
	h.released = true
	delete(r.handles, h.id)
	delete(r.docs, h.id)
	return nil
}

// Handle owns one compiled document until released.
type Handle struct {
	id       string
	url      string
	registry *Registry
	released bool // guarded by registry.mu
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) URL() string {
	return h.url
}

// Release frees the document. Only the first call has an effect; later calls
// return ErrReleased.
func (h *Handle) Release() error {
	return h.registry.release(h)
}

// IDFromFile extracts the handle id from a "<id>.vtt" file name.
func IDFromFile(name string) (string, bool) {
	id, ok := strings.CutSuffix(name, ".vtt")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
