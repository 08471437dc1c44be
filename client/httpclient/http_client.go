package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joy-dx/goajax/config"
	"github.com/joy-dx/goajax/dto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HTTPClient performs the standard XMLHttpRequest style exchange.
//
// It supports multiple authentication modes:
//   - OAuth2 TokenSource (golang.org/x/oauth2)
//   - Custom AuthProvider
//   - Cookie-based sessions, sent only for credentialed requests
//
// Ready state changes are reported through the StageFunc of each call.

const NetClientHTTPRef dto.NetClientType = "net.client.http"

var tracer = otel.Tracer("github.com/joy-dx/goajax/client/httpclient")

type HTTPClient struct {
	NetClient dto.NetClient `json:"net_client" yaml:"net_client"`
	cfg       *HTTPClientConfig
	ajaxCfg   *config.AjaxSvcConfig
	client    *http.Client
	token     dto.TokenInfo
	tokenMu   sync.RWMutex
}

func NewHTTPClient(ref string, ajaxCfg *config.AjaxSvcConfig, cfg *HTTPClientConfig) *HTTPClient {
	return &HTTPClient{
		cfg:     cfg,
		ajaxCfg: ajaxCfg,
		NetClient: dto.NetClient{
			Name:        "HTTP Client",
			Ref:         ref,
			ClientType:  NetClientHTTPRef,
			Description: "Perform asynchronous HTTP requests including auth and cookie session support",
		},
		// Deadlines come from the request context.
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        50,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				DisableKeepAlives:   false,
				Proxy:               http.ProxyFromEnvironment,
			},
		},
	}
}

func (c *HTTPClient) Ref() string {
	return c.NetClient.Ref
}
func (c *HTTPClient) Type() dto.NetClientType {
	return NetClientHTTPRef
}

// ProcessRequest executes one authenticated, middleware-wrapped exchange.
//
// If multiple authentication mechanisms are configured, OAuth2 takes precedence.
// AuthProvider is used as a fallback. Any status code is a completed exchange;
// only transport failures return an error.
func (c *HTTPClient) ProcessRequest(ctx context.Context, wire *dto.WireRequest, onStage dto.StageFunc) (dto.Exchange, error) {
	if onStage == nil {
		onStage = func(dto.ReadyState, dto.Exchange) {}
	}

	ctx, span := tracer.Start(ctx, "goajax.send", trace.WithAttributes(
		attribute.String("http.request.method", wire.Method),
		attribute.String("url.full", wire.URL),
	))
	defer span.End()

	ex, err := c.exchange(ctx, wire, onStage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ex, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", ex.StatusCode))
	return ex, nil
}

func (c *HTTPClient) exchange(ctx context.Context, wire *dto.WireRequest, onStage dto.StageFunc) (dto.Exchange, error) {
	req := newHTTPRequest(wire)

	for _, mw := range c.cfg.Middlewares {
		if err := mw(ctx, req); err != nil {
			return dto.Exchange{}, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := c.ensureToken(ctx); err != nil {
		return dto.Exchange{}, fmt.Errorf("ensure token: %w", err)
	}

	c.tokenMu.RLock()
	c.attachAuth(req)
	c.tokenMu.RUnlock()

	if err := req.FinalizeBody(); err != nil {
		return dto.Exchange{}, err
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return dto.Exchange{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header = req.Headers.Clone()

	onStage(dto.Opened, dto.Exchange{})

	// httpResp may be non-nil with error
	httpResp, reqErr := c.client.Do(httpReq)
	if httpResp != nil {
		defer func() {
			io.Copy(io.Discard, httpResp.Body) // drain fully for connection reuse
			httpResp.Body.Close()
		}()
	}
	if reqErr != nil {
		return dto.Exchange{}, fmt.Errorf("perform request: %w", reqErr)
	}

	ex := dto.Exchange{
		StatusCode: httpResp.StatusCode,
		StatusText: statusText(httpResp),
		Headers:    httpResp.Header.Clone(),
		Total:      httpResp.ContentLength,
	}
	onStage(dto.HeadersReceived, ex)

	var buf bytes.Buffer
	pr := &progressReader{
		ctx:        ctx,
		reader:     httpResp.Body,
		total:      httpResp.ContentLength,
		interval:   c.loadingInterval(),
		lastReport: time.Now(),
		onProgress: func(loaded, total int64) {
			partial := ex
			partial.Body = append([]byte(nil), buf.Bytes()...)
			partial.Loaded = loaded
			onStage(dto.Loading, partial)
		},
	}
	if _, err := io.Copy(&buf, pr); err != nil {
		return ex, fmt.Errorf("read body: %w", err)
	}
	ex.Body = buf.Bytes()
	ex.Loaded = int64(len(ex.Body))

	if wire.WithCredentials && len(ex.Headers["Set-Cookie"]) > 0 {
		c.captureCookiesFromHeaders(ex.Headers)
	}

	// A rejected token is fetched again on the next request.
	if ex.StatusCode == http.StatusUnauthorized {
		c.resetToken()
	}

	return ex, nil
}

func (c *HTTPClient) loadingInterval() time.Duration {
	if c.ajaxCfg == nil || c.ajaxCfg.LoadingInterval <= 0 {
		return 250 * time.Millisecond
	}
	return c.ajaxCfg.LoadingInterval
}

func statusText(res *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
	if text == "" {
		return http.StatusText(res.StatusCode)
	}
	return text
}
