package goajax

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/joy-dx/goajax/client/jsonpclient"
	"github.com/joy-dx/goajax/config"
	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/history"
	"github.com/joy-dx/goajax/host"
	"github.com/joy-dx/goajax/page"
	"github.com/joy-dx/lockablemap"
	relayDTO "github.com/joy-dx/relay/dto"
)

// AjaxSvc orchestrates requests against one page and its navigation history.
// It owns the in-flight request registry and the history callback table.
type AjaxSvc struct {
	cfg     *config.AjaxSvcConfig
	relay   relayDTO.RelayInterface
	page    page.Page
	history history.Backend

	clientsMu sync.RWMutex
	clients   map[string]dto.NetClientInterface
	jsonp     *jsonpclient.Runner

	requests     *requestRegistry
	callbacks    *callbackRegistry
	requestState *lockablemap.LockableMap[string, dto.RequestNotification]

	muListeners    sync.Mutex
	listenersByKey map[string][]chan dto.RequestNotification

	versionMu sync.Mutex
	// epoch counts navigation replays, a content swap started in an older
	// epoch is stale
	epoch        atomic.Uint64
	jsonpCounter atomic.Uint64

	hostMu sync.RWMutex
	host   host.Host
}

func (s *AjaxSvc) RegisterClient(ref string, client dto.NetClientInterface) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[ref] = client
}

func (s *AjaxSvc) client(ref string) (dto.NetClientInterface, bool) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	c, ok := s.clients[ref]
	return c, ok
}

func (s *AjaxSvc) clientRefs() []string {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	out := make([]string, 0, len(s.clients))
	for ref := range s.clients {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

// Page returns the page the service reads metadata from and injects into.
func (s *AjaxSvc) Page() page.Page {
	return s.page
}

func (s *AjaxSvc) History() history.Backend {
	return s.history
}

// RequestListener returns a channel of lifecycle updates for a request key
func (s *AjaxSvc) RequestListener(key string) (<-chan dto.RequestNotification, func()) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()

	ch := make(chan dto.RequestNotification, 10)
	s.listenersByKey[key] = append(s.listenersByKey[key], ch)

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			s.muListeners.Lock()
			defer s.muListeners.Unlock()

			chans := s.listenersByKey[key]
			out := chans[:0]
			found := false
			for _, c := range chans {
				if c != ch {
					out = append(out, c)
				} else {
					found = true
				}
			}
			if len(out) == 0 {
				delete(s.listenersByKey, key)
			} else {
				s.listenersByKey[key] = out
			}
			// RequestListenerClose may have closed it already
			if found {
				close(ch)
			}
		})
	}

	return ch, unsub
}

// RequestListenerClose closes all channels for a given key manually
func (s *AjaxSvc) RequestListenerClose(key string) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()
	if chans, ok := s.listenersByKey[key]; ok {
		for _, c := range chans {
			close(c)
		}
		delete(s.listenersByKey, key)
	}
}
