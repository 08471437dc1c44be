package goajax

import (
	"context"
	"strconv"

	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/utils"
)

const historyVersionLength = 40

// HistoryVersion returns the page's history version token, creating it on
// first use.
func (s *AjaxSvc) HistoryVersion() string {
	s.versionMu.Lock()
	defer s.versionMu.Unlock()
	if v, ok := s.page.Meta(dto.MetaHistoryVersion); ok && v != "" {
		return v
	}
	v := utils.RandomString(historyVersionLength)
	s.page.SetMeta(dto.MetaHistoryVersion, v)
	return v
}

func (s *AjaxSvc) setComponentState(restoring bool) {
	s.page.SetMeta(dto.MetaComponentState, strconv.FormatBool(restoring))
}

// componentRestoring reports whether a navigation replay is in progress.
func (s *AjaxSvc) componentRestoring() bool {
	v, _ := s.page.Meta(dto.MetaComponentState)
	return v == "true"
}

// syncHistory records a successful history tracked request. The current
// entry is replaced when it already points at the target.
func (s *AjaxSvc) syncHistory(cfg *dto.RequestConfig, version string, replay func(dto.Response)) {
	name := s.callbacks.put(replay)
	state := &dto.HistoryState{
		URL:               cfg.URL,
		Method:            cfg.Method,
		Title:             cfg.Title,
		Assets:            cfg.Assets,
		ScrollTop:         cfg.ScrollTop,
		History:           true,
		HardReloadOnError: cfg.HardReloadOnError(),
		CallbackName:      name,
		HistoryVersion:    version,
	}

	if s.history.URL() != cfg.URL {
		if err := s.history.PushState(state, cfg.Title, cfg.URL); err != nil {
			s.callbacks.drop(name)
			s.logWarn("push history state: " + err.Error())
		}
		return
	}

	// the backend discards the replaced entry's callback
	if err := s.history.ReplaceState(state, cfg.Title, cfg.URL); err != nil {
		s.callbacks.drop(name)
		s.logWarn("replace history state: " + err.Error())
	}
}

// hardRedirect leaves the page for url, or reloads it when url is empty.
// Nothing happens unless allowed.
func (s *AjaxSvc) hardRedirect(url string, allowed bool) {
	if !allowed {
		return
	}
	if err := s.history.ReplaceState(nil, "", url); err != nil {
		s.logWarn("replace history state: " + err.Error())
	}
	if url == "" {
		s.page.Reload()
		return
	}
	s.page.Redirect(url)
}

// HandlePopState replays the request behind a navigation entry and hands
// its response to the success handler stored for it. Entries without a live
// handler fall back to a hard redirect and return a nil handle.
func (s *AjaxSvc) HandlePopState(ctx context.Context, state *dto.HistoryState) *Handle {
	s.setComponentState(true)
	s.epoch.Add(1)

	// navigation never fails silently, redirect suppression only applies
	// to forward requests
	if state == nil || state.URL == "" || state.CallbackName == "" {
		url := ""
		if state != nil {
			url = state.URL
		}
		s.logDebug("navigation entry without replayable state, reloading")
		s.hardRedirect(url, true)
		return nil
	}
	fn, err := s.callbacks.take(state.CallbackName)
	if err != nil {
		s.logDebug("navigation entry " + state.CallbackName + ": " + err.Error())
		s.hardRedirect(state.URL, true)
		return nil
	}

	cfg := dto.DefaultRequestConfig()
	cfg.WithURL(state.URL).
		WithMethod(state.Method).
		WithTitle(state.Title).
		WithScrollTop(state.ScrollTop).
		WithAssets(state.Assets).
		WithHistory(true).
		WithHardReloadOnError(state.HardReloadOnError)

	key := cfg.RequestKey()
	cfg.WithComplete(func(res dto.Response) {
		s.notify(dto.EventHistoryComplete, key, res)
	})
	cfg.Then(func(res dto.Response) {
		s.notify(dto.EventHistorySuccess, key, res)
		fn(res)
	}, func(res dto.Response) {
		// the failed request redirects on its own
		s.notify(dto.EventHistoryError, key, res)
	})

	s.notify(dto.EventHistoryStart, key, dto.Response{Config: &cfg, ReadyState: dto.Uninitialized})
	return s.send(ctx, &cfg, sendOptions{replay: fn, forceRedirect: true})
}
