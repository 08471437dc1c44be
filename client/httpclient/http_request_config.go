package httpclient

import (
	"net/http"

	"github.com/joy-dx/goajax/dto"
)

// HTTPRequest is per-call mutable state built from an immutable WireRequest.
type HTTPRequest struct {
	Method          string
	URL             string
	Headers         http.Header
	Body            []byte
	WithCredentials bool
	// Fields are merged into a url encoded body by FinalizeBody
	Fields map[string]any
}

// newHTTPRequest copies the wire request so middlewares never mutate the
// caller's headers or body.
func newHTTPRequest(wire *dto.WireRequest) *HTTPRequest {
	r := &HTTPRequest{
		Method:          wire.Method,
		URL:             wire.URL,
		Headers:         wire.Headers.Clone(),
		WithCredentials: wire.WithCredentials,
	}
	if r.Headers == nil {
		r.Headers = http.Header{}
	}
	if len(wire.Body) > 0 {
		r.Body = append([]byte(nil), wire.Body...)
	}
	return r
}

func (r *HTTPRequest) ClientType() dto.NetClientType { return NetClientHTTPRef }

func (r *HTTPRequest) SetHeader(k, v string) {
	if r.Headers == nil {
		r.Headers = http.Header{}
	}
	r.Headers.Set(k, v)
}

func (r *HTTPRequest) Header(k string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers.Get(k)
}
