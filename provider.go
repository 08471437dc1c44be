package goajax

import (
	"context"
	"sync"

	"github.com/joy-dx/goajax/config"
	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/history"
	"github.com/joy-dx/goajax/page"
	"github.com/joy-dx/goajax/relays"
	"github.com/joy-dx/lockablemap"
)

var (
	service     *AjaxSvc
	serviceOnce sync.Once
)

// ProvideAjaxSvc returns the process wide service bound to an in-memory page
// and history.
func ProvideAjaxSvc(cfg *config.AjaxSvcConfig) *AjaxSvc {
	serviceOnce.Do(func() {
		service = NewAjaxSvc(cfg, page.NewMemory(), history.NewMemory(""))
	})
	return service
}

// NewAjaxSvc builds a service for the given page and history. Navigation
// events of the history are replayed through HandlePopState.
func NewAjaxSvc(cfg *config.AjaxSvcConfig, pg page.Page, hist history.Backend) *AjaxSvc {
	if pg == nil {
		pg = page.NewMemory()
	}
	if hist == nil {
		hist = history.NewMemory("")
	}
	s := &AjaxSvc{
		cfg:            cfg,
		relay:          cfg.Relay(),
		page:           pg,
		history:        hist,
		clients:        make(map[string]dto.NetClientInterface),
		requests:       newRequestRegistry(),
		callbacks:      newCallbackRegistry(),
		requestState:   lockablemap.NewLockableMap[string, dto.RequestNotification](),
		listenersByKey: make(map[string][]chan dto.RequestNotification),
	}
	hist.OnPopState(func(state *dto.HistoryState) {
		s.HandlePopState(context.Background(), state)
	})
	hist.OnDiscard(func(state *dto.HistoryState) {
		if state.CallbackName != "" {
			s.callbacks.drop(state.CallbackName)
		}
	})
	if s.relay != nil {
		s.relay.Debug(relays.RlyAjaxLog{Msg: "Ajax service started"})
	}
	return s
}
