package goajax

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/utils"
)

const defaultTimeout = 60 * time.Second

// sendOptions carries what a navigation replay adds to a plain request.
type sendOptions struct {
	// replay is stored for the next history entry instead of cfg.Success
	replay func(dto.Response)
	// forceRedirect hard redirects a failed replay even when the entry
	// suppressed redirects
	forceRedirect bool
}

// Send issues cfg and returns its handle without waiting. A config without
// URL yields a nil handle and fires nothing.
func (s *AjaxSvc) Send(ctx context.Context, cfg *dto.RequestConfig) *Handle {
	return s.send(ctx, cfg, sendOptions{})
}

// Do sends cfg and waits for its outcome. Any terminal status other than 200
// is returned as a *dto.StatusError.
func (s *AjaxSvc) Do(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	h := s.Send(ctx, cfg)
	if h == nil {
		return dto.Response{}, dto.ErrNoURL
	}
	return h.Wait(ctx)
}

func (s *AjaxSvc) verb(ctx context.Context, method, url string, data any) (dto.Response, error) {
	cfg := dto.DefaultRequestConfig()
	cfg.WithMethod(method).
		WithURL(url).
		WithData(data)
	return s.Do(ctx, &cfg)
}

func (s *AjaxSvc) Get(ctx context.Context, url string, data any) (dto.Response, error) {
	return s.verb(ctx, http.MethodGet, url, data)
}

func (s *AjaxSvc) Post(ctx context.Context, url string, data any) (dto.Response, error) {
	return s.verb(ctx, http.MethodPost, url, data)
}

func (s *AjaxSvc) Put(ctx context.Context, url string, data any) (dto.Response, error) {
	return s.verb(ctx, http.MethodPut, url, data)
}

func (s *AjaxSvc) Patch(ctx context.Context, url string, data any) (dto.Response, error) {
	return s.verb(ctx, http.MethodPatch, url, data)
}

func (s *AjaxSvc) Delete(ctx context.Context, url string, data any) (dto.Response, error) {
	return s.verb(ctx, http.MethodDelete, url, data)
}

func (s *AjaxSvc) Head(ctx context.Context, url string, data any) (dto.Response, error) {
	return s.verb(ctx, http.MethodHead, url, data)
}

func (s *AjaxSvc) JSONP(ctx context.Context, url string, data any) (dto.Response, error) {
	return s.verb(ctx, dto.MethodJSONP, url, data)
}

func (s *AjaxSvc) send(ctx context.Context, in *dto.RequestConfig, opts sendOptions) *Handle {
	if in == nil || in.URL == "" {
		return nil
	}
	cfg := in.Clone()
	cfg.Method = cfg.NormalizedMethod()
	if cfg.Timeout <= 0 {
		cfg.Timeout = s.cfg.RequestTimeout
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.JSONPCallbackParam == "" {
		cfg.JSONPCallbackParam = s.cfg.JSONPCallbackParam
	}
	key := cfg.RequestKey()
	isJSONP := cfg.Method == dto.MethodJSONP

	if cfg.PreventsDuplicate() && !isJSONP {
		s.requests.cancel(key)
	}

	payload, err := utils.PrepareBody(cfg.Method, cfg.Data, cfg.FileInputs)
	if err != nil {
		return s.failEarly(key, cfg, err)
	}
	url := utils.AddQueryString(cfg.URL, payload.Query)
	if !cfg.Cache {
		url = utils.AddQueryString(url, utils.NonCacheQS())
	}
	if cfg.URLData != nil {
		url = utils.AddQueryString(url, utils.Serialize(cfg.URLData))
	}

	if cfg.Before != nil {
		cfg.Before()
	}

	if isJSONP {
		return s.sendJSONP(ctx, key, cfg, url)
	}

	version := ""
	if cfg.History {
		version = s.HistoryVersion()
	}
	wire := &dto.WireRequest{
		Method:          cfg.Method,
		URL:             url,
		Headers:         s.buildHeaders(cfg, payload, version),
		Body:            payload.Body,
		WithCredentials: cfg.WithCredentials,
		Async:           cfg.Async(),
	}

	client, err := s.clientFor(cfg)
	if err != nil {
		return s.failEarly(key, cfg, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	h := newHandle(key, cfg, cancel)
	s.requests.register(key, h, cfg.PreventsDuplicate())
	s.notify(dto.EventAjaxStart, key, dto.Response{
		Config:     cfg,
		Request:    wire,
		ReadyState: dto.Uninitialized,
		Timestamp:  time.Now(),
	})

	go func() {
		defer cancel()
		ex, err := client.ProcessRequest(reqCtx, wire, s.stageFunc(h, wire))
		s.finish(reqCtx, h, wire, version, ex, err, opts)
	}()
	return h
}

// buildHeaders layers service headers, caller headers and the wire contract.
func (s *AjaxSvc) buildHeaders(cfg *dto.RequestConfig, payload utils.Payload, version string) http.Header {
	headers := http.Header{}
	for k, v := range s.cfg.ExtraHeaders {
		headers.Set(k, v)
	}
	if s.cfg.UserAgent != "" {
		headers.Set("User-Agent", s.cfg.UserAgent)
	}
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}
	if cfg.SendsCSRF() {
		if token, ok := s.page.Meta(dto.MetaCSRFToken); ok && token != "" {
			headers.Set(dto.HeaderCSRFToken, token)
		}
	}
	headers.Set(dto.HeaderRequestedWith, dto.RequestedWithValue)
	switch {
	case payload.ContentType != "":
		headers.Set(dto.HeaderContentType, payload.ContentType)
	case dto.IsURLEncodedMethod(cfg.Method) && len(cfg.FileInputs) == 0:
		headers.Set(dto.HeaderContentType, dto.ContentURLEncoded)
	}
	if cfg.History && version != "" {
		headers.Set(dto.HeaderHistoryVersion, version)
	}
	return headers
}

// clientFor honours ClientRef, then routes s3:// URLs to the S3 client.
func (s *AjaxSvc) clientFor(cfg *dto.RequestConfig) (dto.NetClientInterface, error) {
	ref := cfg.ClientRef
	if ref == "" {
		ref = dto.NET_DEFAULT_CLIENT_REF
		if strings.HasPrefix(strings.ToLower(cfg.URL), "s3://") {
			ref = dto.NET_S3_CLIENT_REF
		}
	}
	client, ok := s.client(ref)
	if !ok {
		return nil, fmt.Errorf("client not found: %s", ref)
	}
	return client, nil
}

func (s *AjaxSvc) stageFunc(h *Handle, wire *dto.WireRequest) dto.StageFunc {
	return func(stage dto.ReadyState, ex dto.Exchange) {
		if h.Aborted() {
			return
		}
		res := newResponse(h.cfg, wire, stage, ex)
		if h.cfg.StateChange != nil {
			h.cfg.StateChange(res)
		}
		s.publish(dto.RequestNotification{
			Key:        h.key,
			URL:        wire.URL,
			Method:     wire.Method,
			ReadyState: stage,
			StatusCode: ex.StatusCode,
			Downloaded: ex.Loaded,
			TotalSize:  ex.Total,
		})
	}
}

// finish runs the terminal lifecycle of a standard request.
func (s *AjaxSvc) finish(ctx context.Context, h *Handle, wire *dto.WireRequest, version string, ex dto.Exchange, err error, opts sendOptions) {
	cfg := h.cfg
	s.requests.release(h.key, h)

	// A caller cancelling its context aborts rather than fails the request.
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		h.Abort()
	}
	if !h.beginTerminal() {
		s.settleAborted(h, wire)
		return
	}

	res := newResponse(cfg, wire, dto.Complete, ex)
	// Aborts were settled above through the handle flag, so status 0 here
	// always reports a transport failure and runs the error path.
	if err != nil {
		res.Err = err
		res.StatusCode = 0
		res.StatusText = "Error"
		if errors.Is(err, context.DeadlineExceeded) {
			res.StatusText = "Timeout"
		}
	}
	if cfg.StateChange != nil {
		cfg.StateChange(res)
	}
	s.notify(dto.EventAjaxComplete, h.key, res)
	if cfg.Complete != nil {
		cfg.Complete(res)
	}

	if err == nil && res.StatusCode == http.StatusOK {
		if cfg.History && versionDrifted(version, res.Header(dto.HeaderHistoryVersion)) {
			res.Err = dto.ErrVersionDrift
			s.notify(dto.EventAjaxError, h.key, res)
			s.hardRedirect(cfg.URL, cfg.HardReloadOnError() || opts.forceRedirect)
			h.settle(res, dto.ErrVersionDrift)
			return
		}

		s.notify(dto.EventAjaxSuccess, h.key, res)
		if cfg.Success != nil {
			cfg.Success(res)
		}
		if cfg.History {
			replay := cfg.Success
			if opts.replay != nil {
				replay = opts.replay
			}
			s.syncHistory(cfg, version, replay)
		}
		s.applyPage(cfg)
		h.settle(res, nil)
		return
	}

	failure := err
	if failure == nil {
		failure = &dto.StatusError{StatusCode: res.StatusCode, StatusText: res.StatusText, URL: cfg.URL}
	}
	s.notify(dto.EventAjaxError, h.key, res)
	if cfg.PreventsDuplicate() {
		if cfg.Error != nil {
			cfg.Error(res)
		}
		if cfg.History {
			s.hardRedirect(cfg.URL, cfg.HardReloadOnError() || opts.forceRedirect)
		}
	}
	h.settle(res, failure)
}

// settleAborted completes a superseded request without success or error.
func (s *AjaxSvc) settleAborted(h *Handle, wire *dto.WireRequest) {
	res := dto.Response{
		Config:     h.cfg,
		Request:    wire,
		StatusCode: 0,
		ReadyState: dto.Complete,
		Timestamp:  time.Now(),
		Err:        dto.ErrAborted,
	}
	s.notify(dto.EventAjaxComplete, h.key, res)
	if h.cfg.Complete != nil {
		h.cfg.Complete(res)
	}
	res.ReadyState = dto.Abort
	s.notify(dto.EventAbort, h.key, res)
	h.settle(res, dto.ErrAborted)
}

// failEarly settles a request that could not be built. The error callback
// receives only the raw error.
func (s *AjaxSvc) failEarly(key string, cfg *dto.RequestConfig, err error) *Handle {
	h := newHandle(key, cfg, nil)
	h.beginTerminal()
	res := dto.Response{Config: cfg, Err: err, Timestamp: time.Now()}
	s.notify(dto.EventAjaxError, key, res)
	if cfg.Error != nil {
		cfg.Error(dto.Response{Err: err})
	}
	h.settle(res, err)
	return h
}

// applyPage performs the page side effects of a successful request.
func (s *AjaxSvc) applyPage(cfg *dto.RequestConfig) {
	if cfg.Title != "" {
		s.page.SetTitle(cfg.Title)
	}
	if cfg.ScrollTop {
		s.page.ScrollToTop()
	}
	s.injectAssets(cfg.Assets)
}

// injectAssets appends every stylesheet and script not already on the page.
func (s *AjaxSvc) injectAssets(assets any) {
	for _, src := range utils.FlattenAssets(assets) {
		kind := utils.AssetKindOf(src)
		if kind == utils.AssetNone || s.page.HasAsset(kind, src) {
			continue
		}
		s.page.AppendAsset(kind, src)
	}
}

func versionDrifted(sent, received string) bool {
	return sent != "" && received != "" && sent != received
}
