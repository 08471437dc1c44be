package httpclient

import (
	"context"
	"fmt"

	"github.com/joy-dx/goajax/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// HeaderMiddleware adds headers the request does not carry yet. Headers set
// by the caller win.
func HeaderMiddleware(headers map[string]string) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		for k, v := range headers {
			if r.Header(k) == "" {
				r.SetHeader(k, v)
			}
		}
		return nil
	}
}

// RelayMiddleware reports every outgoing request at debug level.
func RelayMiddleware(relay relayDTO.RelayInterface) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		if relay != nil {
			relay.Debug(relays.RlyAjaxLog{Msg: fmt.Sprintf("[HTTP] %s %s", r.Method, r.URL)})
		}
		return nil
	}
}

// InjectFieldMiddleware adds a form field to every url encoded body.
func InjectFieldMiddleware(key string, val any) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		if r.Fields == nil {
			r.Fields = map[string]any{}
		}
		r.Fields[key] = val
		return nil
	}
}
