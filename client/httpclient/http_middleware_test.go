package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joy-dx/goajax/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

type debugRelay struct {
	msgs []string
}

func (r *debugRelay) Debug(data relayDTO.RelayEventInterface) { r.msgs = append(r.msgs, data.Message()) }
func (r *debugRelay) Info(relayDTO.RelayEventInterface)       {}
func (r *debugRelay) Warn(relayDTO.RelayEventInterface)       {}
func (r *debugRelay) Error(relayDTO.RelayEventInterface)      {}
func (r *debugRelay) Fatal(relayDTO.RelayEventInterface)      {}
func (r *debugRelay) Meta(relayDTO.RelayEventInterface)       {}

func Test_Middlewares_golden(t *testing.T) {
	srv, last := newRecordingServer(t, func(rr recordedRequest, w http.ResponseWriter) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	defer srv.Close()

	rly := &debugRelay{}
	cfg := DefaultHTTPClientConfig()
	cfg.WithMiddleware(
		HeaderMiddleware(map[string]string{
			"X-Static":   "1",
			"X-Fromwire": "overridden",
		}),
		InjectFieldMiddleware("injected", "yes"),
		RelayMiddleware(rly),
	)
	cfg.OAuthSource = bearer("abc")

	c := newTestClient(t, &cfg)

	_, err := c.ProcessRequest(context.Background(), &dto.WireRequest{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: http.Header{"X-Fromwire": []string{"1"}},
		Body:    []byte("orig=v"),
	}, nil)
	if err != nil {
		t.Fatalf("ProcessRequest error: %v", err)
	}

	if last.Header.Get("X-Static") != "1" || last.Header.Get("X-FromWire") != "1" {
		t.Fatalf("headers=%v", last.Header)
	}
	if string(last.Body) != "orig=v&injected=yes" {
		t.Fatalf("body=%q", last.Body)
	}
	if !strings.HasPrefix(last.Header.Get("Authorization"), "Bearer ") {
		t.Fatalf("Authorization=%q", last.Header.Get("Authorization"))
	}
	if len(rly.msgs) != 1 || rly.msgs[0] != "[HTTP] POST "+srv.URL {
		t.Fatalf("logged=%v", rly.msgs)
	}
}

func Test_Middlewares_abortStopsRequest(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.WithMiddleware(func(ctx context.Context, req *HTTPRequest) error {
		return context.Canceled
	})
	c := newTestClient(t, &cfg)

	_, err := c.ProcessRequest(context.Background(), &dto.WireRequest{Method: http.MethodGet, URL: srv.URL}, nil)
	if err == nil || !strings.Contains(err.Error(), "middleware aborted") {
		t.Fatalf("err=%v", err)
	}
	if hit {
		t.Fatal("server was hit after middleware abort")
	}
}
