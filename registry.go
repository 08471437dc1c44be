package goajax

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/joy-dx/goajax/dto"
)

// requestRegistry holds at most one in-flight handle per request key.
type requestRegistry struct {
	mu      sync.Mutex
	entries map[string]*Handle
}

func newRequestRegistry() *requestRegistry {
	return &requestRegistry{entries: make(map[string]*Handle)}
}

// register makes h the entry of key, aborting the replaced one when
// cancelPrior is set.
func (r *requestRegistry) register(key string, h *Handle, cancelPrior bool) {
	r.mu.Lock()
	prior := r.entries[key]
	r.entries[key] = h
	r.mu.Unlock()

	if cancelPrior && prior != nil && prior != h {
		prior.Abort()
	}
}

// cancel evicts and aborts the entry of key. Finished handles ignore it.
func (r *requestRegistry) cancel(key string) bool {
	r.mu.Lock()
	prior := r.entries[key]
	delete(r.entries, key)
	r.mu.Unlock()
	return prior.Abort()
}

// release drops the entry of key if h still owns it.
func (r *requestRegistry) release(key string, h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[key] == h {
		delete(r.entries, key)
	}
}

func (r *requestRegistry) get(key string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[key]
}

func (r *requestRegistry) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// callbackRegistry maps generated names to success handlers that can be
// replayed from a history entry. Entries are write once and single shot.
type callbackRegistry struct {
	mu  sync.Mutex
	fns map[string]func(dto.Response)
}

func newCallbackRegistry() *callbackRegistry {
	return &callbackRegistry{fns: make(map[string]func(dto.Response))}
}

// put stores fn under a fresh name. A nil fn is stored as a no-op so the
// entry can still be replayed.
func (r *callbackRegistry) put(fn func(dto.Response)) string {
	for {
		name := "cb_" + uuid.NewString()
		if err := r.putNamed(name, fn); err == nil {
			return name
		}
	}
}

func (r *callbackRegistry) putNamed(name string, fn func(dto.Response)) error {
	if fn == nil {
		fn = func(dto.Response) {}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fns[name]; ok {
		return dto.ErrCallbackExists
	}
	r.fns[name] = fn
	return nil
}

// take removes and returns the handler of name.
func (r *callbackRegistry) take(name string) (func(dto.Response), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.fns[name]
	if !ok {
		return nil, dto.ErrCallbackNotFound
	}
	delete(r.fns, name)
	return fn, nil
}

func (r *callbackRegistry) has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.fns[name]
	return ok
}

func (r *callbackRegistry) drop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fns, name)
}

func (r *callbackRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fns)
}
