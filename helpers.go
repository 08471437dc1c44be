package goajax

import (
	"time"

	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/relays"
)

// publish is the unified notification function
func (s *AjaxSvc) publish(n dto.RequestNotification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	s.requestState.Set(n.Key, n)

	s.muListeners.Lock()
	listeners := append([]chan dto.RequestNotification(nil), s.listenersByKey[n.Key]...)
	s.muListeners.Unlock()

	isTerminal := n.Event.IsTerminal()

	for _, ch := range listeners {
		if isTerminal {
			// Terminal events are always delivered; muListeners is not held here.
			select {
			case ch <- n:
			default:
				go func(c chan dto.RequestNotification, n dto.RequestNotification) {
					// unsub may have closed the channel
					defer func() { _ = recover() }()
					c <- n
				}(ch, n)
			}
		} else {
			// Ready state updates can be dropped
			select {
			case ch <- n:
			default:
			}
		}
	}

	if s.relay == nil {
		return
	}
	evt := relays.RlyAjaxEvent{
		Event:      n.Event,
		Key:        n.Key,
		URL:        n.URL,
		Method:     n.Method,
		Status:     n.StatusCode,
		ReadyState: n.ReadyState,
		Msg:        n.Message,
	}
	switch {
	case n.Event == "":
		s.relay.Debug(evt)
	case n.Event == dto.EventAjaxError || n.Event == dto.EventHistoryError || n.Event == dto.EventShifterError:
		s.relay.Warn(evt)
	default:
		s.relay.Info(evt)
	}
}

// notify publishes an event for the request behind res.
func (s *AjaxSvc) notify(event dto.EventType, key string, res dto.Response) {
	n := dto.RequestNotification{
		Key:        key,
		Event:      event,
		ReadyState: res.ReadyState,
		StatusCode: res.StatusCode,
		Timestamp:  res.Timestamp,
	}
	if res.Config != nil {
		n.URL = res.Config.URL
		n.Method = res.Config.Method
	}
	if res.Request != nil {
		n.URL = res.Request.URL
	}
	if res.Err != nil {
		n.Message = res.Err.Error()
	}
	s.publish(n)
}

func (s *AjaxSvc) logDebug(msg string) {
	if s.relay != nil {
		s.relay.Debug(relays.RlyAjaxLog{Msg: msg})
	}
}

func (s *AjaxSvc) logWarn(msg string) {
	if s.relay != nil {
		s.relay.Warn(relays.RlyAjaxLog{Msg: msg})
	}
}

// newResponse normalizes what a transport observed at one ready state.
func newResponse(cfg *dto.RequestConfig, wire *dto.WireRequest, stage dto.ReadyState, ex dto.Exchange) dto.Response {
	return dto.Response{
		Config:     cfg,
		Data:       dto.DecodeData(ex.Body, ex.Headers.Get("Content-Type"), stage),
		Body:       ex.Body,
		Headers:    ex.Headers,
		Request:    wire,
		StatusCode: ex.StatusCode,
		StatusText: ex.StatusText,
		Timestamp:  time.Now(),
		ReadyState: stage,
	}
}
