package goajax

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/host"
)

// ShiftConfig describes a content swap: the template request and the
// component it becomes.
type ShiftConfig struct {
	Request *dto.RequestConfig
	// Is names the component and the slot it is bound to
	Is string
	// TemplatePath extracts the template from a JSON body when set
	TemplatePath string
}

func (c *ShiftConfig) name() string {
	if c.Is == "" {
		return dto.DefaultComponentName
	}
	return c.Is
}

// ShiftComponent fetches a template and registers it as a host component.
// A response that completes while a navigation replay started is stale and
// the fetch is retried, at most MaxShiftAttempts times.
func (s *AjaxSvc) ShiftComponent(ctx context.Context, sc *ShiftConfig, onSuccess, onError func(dto.Response)) (dto.Response, error) {
	hst := s.currentHost()
	if hst == nil {
		return dto.Response{}, dto.ErrNoHost
	}
	if sc == nil || sc.Request == nil || sc.Request.URL == "" {
		return dto.Response{}, dto.ErrNoURL
	}
	name := sc.name()

	attempts := s.cfg.MaxShiftAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var res dto.Response
	for attempt := 0; attempt < attempts; attempt++ {
		s.setComponentState(false)
		generation := s.epoch.Load()

		cfg := sc.Request.Clone()
		key := cfg.RequestKey()
		complete := cfg.Complete
		cfg.WithComplete(func(r dto.Response) {
			s.notify(dto.EventShifterComplete, key, r)
			if complete != nil {
				complete(r)
			}
		})
		// outcomes are handled below
		cfg.Then(nil, nil)

		s.notify(dto.EventShifterStart, key, dto.Response{Config: cfg, ReadyState: dto.Uninitialized})

		var err error
		res, err = s.Send(ctx, cfg).Wait(ctx)
		if err != nil {
			if errors.Is(err, dto.ErrAborted) {
				return res, err
			}
			return res, s.shiftFailed(key, res, err, onError)
		}

		if s.componentRestoring() || s.epoch.Load() != generation {
			s.logDebug(fmt.Sprintf("component %s: stale template, attempt %d", name, attempt+1))
			continue
		}

		tpl := string(res.Body)
		if sc.TemplatePath != "" {
			found := res.Get(sc.TemplatePath)
			if !found.Exists() {
				return res, s.shiftFailed(key, res, fmt.Errorf("template path %q not found in response", sc.TemplatePath), onError)
			}
			tpl = found.String()
		}
		if err := hst.RegisterComponent(name, func() (string, error) { return tpl, nil }); err != nil {
			return res, s.shiftFailed(key, res, fmt.Errorf("register component %s: %w", name, err), onError)
		}

		s.notify(dto.EventShifterSuccess, key, res)
		if onSuccess != nil {
			onSuccess(res)
		}
		// rebinding forces the slot to render the new template
		hst.Bind(name, "")
		hst.Bind(name, name)
		return res, nil
	}

	return res, s.shiftFailed(sc.Request.RequestKey(), res, dto.ErrShiftSuperseded, onError)
}

func (s *AjaxSvc) shiftFailed(key string, res dto.Response, err error, onError func(dto.Response)) error {
	if res.Err == nil {
		res.Err = err
	}
	s.notify(dto.EventShifterError, key, res)
	if onError != nil {
		onError(res)
	}
	return err
}

func (s *AjaxSvc) currentHost() host.Host {
	s.hostMu.RLock()
	defer s.hostMu.RUnlock()
	return s.host
}
