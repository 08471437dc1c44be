package goajax

import (
	"context"
	"sync"

	"github.com/joy-dx/goajax/dto"
)

// Handle is the future of one request. A nil Handle is what Send returns for
// a config without URL; every method is safe to call on it.
type Handle struct {
	key string
	cfg *dto.RequestConfig
	// scriptSrc is set for JSONP requests
	scriptSrc string
	onAbort   func()
	done      chan struct{}

	mu       sync.Mutex
	aborted  bool
	finished bool
	settled  bool
	res      dto.Response
	err      error
}

func newHandle(key string, cfg *dto.RequestConfig, onAbort func()) *Handle {
	return &Handle{
		key:     key,
		cfg:     cfg,
		onAbort: onAbort,
		done:    make(chan struct{}),
	}
}

func (h *Handle) Key() string {
	if h == nil {
		return ""
	}
	return h.key
}

// ScriptSrc is the injected script URL of a JSONP request.
func (h *Handle) ScriptSrc() string {
	if h == nil {
		return ""
	}
	return h.scriptSrc
}

// Done is closed once the request settled. A nil Handle is always done.
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return h.done
}

// Wait blocks until the request settled or ctx ends.
func (h *Handle) Wait(ctx context.Context) (dto.Response, error) {
	if h == nil {
		return dto.Response{}, dto.ErrNoURL
	}
	select {
	case <-h.done:
	case <-ctx.Done():
		return dto.Response{}, ctx.Err()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.res, h.err
}

// Abort cancels the request unless it already reached its terminal dispatch.
// It reports whether this call aborted it.
func (h *Handle) Abort() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	if h.aborted || h.finished {
		h.mu.Unlock()
		return false
	}
	h.aborted = true
	h.mu.Unlock()

	if h.onAbort != nil {
		h.onAbort()
	}
	return true
}

func (h *Handle) Aborted() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.aborted
}

// beginTerminal closes the window in which Abort can still win. Callbacks of
// an outcome only run after it returned true.
func (h *Handle) beginTerminal() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.aborted {
		return false
	}
	h.finished = true
	return true
}

// settle records the outcome once and releases every waiter.
func (h *Handle) settle(res dto.Response, err error) {
	h.mu.Lock()
	if h.settled {
		h.mu.Unlock()
		return
	}
	h.settled = true
	h.res = res
	h.err = err
	h.mu.Unlock()
	close(h.done)
}
