package jsonpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dop251/goja"
	"github.com/joy-dx/goajax/dto"
)

var (
	ErrScriptStatus = errors.New("jsonp: script request failed")
	ErrDetached     = errors.New("jsonp: script tag removed before execution")
)

// Script is one injected JSONP script tag.
type Script struct {
	Src string
	// Callback is the global function name the payload is expected to call
	Callback string
	// OnCallback receives the exported first argument of the callback call
	OnCallback func(data any)
}

// Runner loads JSONP scripts and evaluates them in an isolated VM.
type Runner struct {
	client *http.Client
}

func NewRunner(client *http.Client) *Runner {
	if client == nil {
		client = http.DefaultClient
	}
	return &Runner{client: client}
}

func (r *Runner) Ref() string {
	return dto.NET_JSONP_CLIENT_REF
}

func (r *Runner) Type() dto.NetClientType {
	return dto.NET_JSONP_CLIENT_REF
}

// Run fetches the script and evaluates it unless attached reports that its
// tag has been removed in the meantime, in which case ErrDetached is returned.
// A nil error means the script loaded and ran.
func (r *Runner) Run(ctx context.Context, s Script, attached func() bool) error {
	src, err := r.fetch(ctx, s.Src)
	if err != nil {
		return err
	}
	if attached != nil && !attached() {
		return ErrDetached
	}

	vm := goja.New()
	bindCommon(vm)
	if s.Callback != "" {
		if err := vm.Set(s.Callback, func(call goja.FunctionCall) goja.Value {
			if s.OnCallback != nil {
				s.OnCallback(call.Argument(0).Export())
			}
			return goja.Undefined()
		}); err != nil {
			return fmt.Errorf("bind callback %s: %w", s.Callback, err)
		}
	}

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	if _, err := vm.RunString(src); err != nil {
		return fmt.Errorf("execute jsonp script: %w", err)
	}
	return nil
}

func (r *Runner) fetch(ctx context.Context, src string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("build jsonp request: %w", err)
	}
	res, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("load jsonp script: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s (%d)", ErrScriptStatus, src, res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read jsonp script: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

func bindCommon(vm *goja.Runtime) {
	console := map[string]func(goja.FunctionCall) goja.Value{
		"log":   func(call goja.FunctionCall) goja.Value { return goja.Undefined() },
		"warn":  func(call goja.FunctionCall) goja.Value { return goja.Undefined() },
		"error": func(call goja.FunctionCall) goja.Value { return goja.Undefined() },
	}
	vm.Set("console", console)
}
