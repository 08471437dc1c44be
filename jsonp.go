package goajax

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/joy-dx/goajax/client/jsonpclient"
	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/utils"
)

// JSONP lifecycles synthesize their status, a script carries none.
const (
	jsonpStatusOK    = 1
	jsonpStatusError = 0
)

// sendJSONP injects a script tag for src and waits for it to call back.
// Removing the tag is the only way to cancel it.
func (s *AjaxSvc) sendJSONP(ctx context.Context, key string, cfg *dto.RequestConfig, src string) *Handle {
	name := utils.RandomString(10) + "_" + strconv.FormatUint(s.jsonpCounter.Add(1), 10)
	src = utils.AddQueryString(src, cfg.JSONPCallbackParam+"="+name)

	if _, err := url.ParseRequestURI(src); err != nil {
		return s.failEarly(key, cfg, fmt.Errorf("jsonp script %q: %w", src, err))
	}
	if s.jsonp == nil {
		return s.failEarly(key, cfg, errors.New("no jsonp runner, call Hydrate first"))
	}

	if cfg.PreventsDuplicate() {
		if prior := s.requests.get(key); prior != nil && prior.scriptSrc != "" {
			s.page.RemoveAsset(utils.AssetScript, prior.scriptSrc)
		}
	}

	var h *Handle
	h = newHandle(key, cfg, func() {
		s.page.RemoveAsset(utils.AssetScript, h.scriptSrc)
	})
	h.scriptSrc = src
	s.page.AppendAsset(utils.AssetScript, src)
	s.requests.register(key, h, false)
	s.notify(dto.EventAjaxStart, key, dto.Response{
		Config:     cfg,
		ReadyState: dto.Uninitialized,
		Timestamp:  time.Now(),
	})

	reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	go func() {
		defer cancel()
		s.runJSONP(reqCtx, h, name)
	}()
	return h
}

func (s *AjaxSvc) runJSONP(ctx context.Context, h *Handle, name string) {
	cfg := h.cfg
	var (
		called   bool
		callback dto.Response
	)

	err := s.jsonp.Run(ctx, jsonpclient.Script{
		Src:      h.scriptSrc,
		Callback: name,
		OnCallback: func(data any) {
			if called || !h.beginTerminal() {
				return
			}
			called = true
			callback = jsonpResponse(cfg, dto.JSONP, jsonpStatusOK, "OK")
			callback.Data = data
			s.notify(dto.EventAjaxSuccess, h.key, callback)
			if cfg.Success != nil {
				cfg.Success(callback)
			}
			s.page.RemoveAsset(utils.AssetScript, h.scriptSrc)
			s.requests.release(h.key, h)
		},
	}, func() bool {
		return s.page.HasAsset(utils.AssetScript, h.scriptSrc)
	})

	switch {
	case err == nil:
		if !called && !h.beginTerminal() {
			s.settleJSONPAborted(h)
			return
		}
		s.requests.release(h.key, h)
		loaded := jsonpResponse(cfg, dto.Complete, jsonpStatusOK, "OK")
		s.notify(dto.EventAjaxComplete, h.key, loaded)
		if cfg.Complete != nil {
			cfg.Complete(loaded)
		}
		if called {
			h.settle(callback, nil)
			return
		}
		h.settle(loaded, nil)

	case errors.Is(err, jsonpclient.ErrDetached) || h.Aborted():
		s.settleJSONPAborted(h)

	default:
		if called {
			// the script called back before failing
			h.settle(callback, nil)
			return
		}
		if !h.beginTerminal() {
			s.settleJSONPAborted(h)
			return
		}
		s.requests.release(h.key, h)
		failed := jsonpResponse(cfg, dto.Complete, jsonpStatusError, "Error")
		failed.Err = err
		s.notify(dto.EventAjaxError, h.key, failed)
		if cfg.Error != nil {
			cfg.Error(failed)
		}
		h.settle(failed, err)
	}
}

func (s *AjaxSvc) settleJSONPAborted(h *Handle) {
	h.Abort()
	s.requests.release(h.key, h)
	res := jsonpResponse(h.cfg, dto.Abort, 0, "")
	res.Err = dto.ErrAborted
	s.notify(dto.EventAbort, h.key, res)
	h.settle(res, dto.ErrAborted)
}

func jsonpResponse(cfg *dto.RequestConfig, stage dto.ReadyState, status int, text string) dto.Response {
	return dto.Response{
		Config:     cfg,
		StatusCode: status,
		StatusText: text,
		Timestamp:  time.Now(),
		ReadyState: stage,
	}
}
