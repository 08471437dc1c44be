package goajax

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/joy-dx/goajax/client/jsonpclient"
	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonpServer struct {
	*httptest.Server
	slowHit chan struct{}
	release chan struct{}
}

func newJSONPServer(t *testing.T) *jsonpServer {
	t.Helper()
	s := &jsonpServer{slowHit: make(chan struct{}, 1), release: make(chan struct{})}
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("callback")
		if name == "" {
			name = r.URL.Query().Get("cbk")
		}
		fmt.Fprintf(w, `%s({"name":"goajax","page":%q});`, name, r.URL.Query().Get("page"))
	})
	mux.HandleFunc("/silent", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `var loaded = true;`)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		s.slowHit <- struct{}{}
		select {
		case <-s.release:
		case <-r.Context().Done():
			return
		}
		fmt.Fprintf(w, `%s({"stale":true});`, r.URL.Query().Get("callback"))
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(func() {
		close(s.release)
		s.Close()
	})
	return s
}

func newJSONPEnv(t *testing.T) (*testEnv, *jsonpServer) {
	t.Helper()
	env := newTestEnv(t)
	srv := newJSONPServer(t)
	env.svc.WithJSONPRunner(jsonpclient.NewRunner(srv.Client()))
	return env, srv
}

func jsonpRequest(url string) *dto.RequestConfig {
	cfg := dto.DefaultRequestConfig()
	cfg.WithURL(url).WithMethod(dto.MethodJSONP)
	return &cfg
}

func scriptSrcs(env *testEnv) []string {
	var out []string
	for _, a := range env.page.Assets() {
		if a.Kind == utils.AssetScript {
			out = append(out, a.Src)
		}
	}
	return out
}

func TestJSONP_CallbackSuccess(t *testing.T) {
	t.Parallel()
	env, srv := newJSONPEnv(t)

	var success, complete dto.Response
	cfg := jsonpRequest(srv.URL + "/feed").
		WithData(map[string]any{"page": "2"}).
		WithComplete(func(res dto.Response) { complete = res })
	cfg.Then(func(res dto.Response) { success = res }, nil)

	h := env.svc.Send(context.Background(), cfg)
	require.NotNil(t, h)
	assert.Contains(t, h.ScriptSrc(), "page=2")
	assert.Contains(t, h.ScriptSrc(), "callback=")

	res, err := h.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, jsonpStatusOK, res.StatusCode)
	assert.Equal(t, "OK", res.StatusText)
	assert.Equal(t, dto.JSONP, res.ReadyState)
	assert.Equal(t, map[string]any{"name": "goajax", "page": "2"}, res.Data)

	assert.Equal(t, res.Data, success.Data)
	assert.Equal(t, dto.Complete, complete.ReadyState)
	assert.Equal(t, jsonpStatusOK, complete.StatusCode)
	assert.Empty(t, scriptSrcs(env), "tag removed after callback")
	assert.Empty(t, env.svc.State().InFlight)
	assert.Equal(t, []dto.EventType{dto.EventAjaxStart, dto.EventAjaxSuccess, dto.EventAjaxComplete}, env.relay.events(srv.URL+"/feed"))
}

func TestJSONP_CallbackParamAndUniqueNames(t *testing.T) {
	t.Parallel()
	env, srv := newJSONPEnv(t)

	cfg := jsonpRequest(srv.URL + "/feed").WithJSONPCallbackParam("cbk").WithPreventDuplicate(false)
	h1 := env.svc.Send(context.Background(), cfg)
	h2 := env.svc.Send(context.Background(), cfg)

	for _, h := range []*Handle{h1, h2} {
		res, err := h.Wait(waitCtx(t))
		require.NoError(t, err)
		assert.Equal(t, "goajax", res.Data.(map[string]any)["name"])
		assert.Contains(t, h.ScriptSrc(), "cbk=")
	}
	assert.NotEqual(t, h1.ScriptSrc(), h2.ScriptSrc())
	assert.True(t, strings.HasSuffix(h2.ScriptSrc(), "_2"), h2.ScriptSrc())
}

func TestJSONP_LoadWithoutCallback(t *testing.T) {
	t.Parallel()
	env, srv := newJSONPEnv(t)

	var succeeded, completed atomic.Bool
	cfg := jsonpRequest(srv.URL + "/silent").
		WithComplete(func(dto.Response) { completed.Store(true) })
	cfg.Then(func(dto.Response) { succeeded.Store(true) }, nil)

	res, err := env.svc.Do(waitCtx(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, dto.Complete, res.ReadyState)
	assert.Equal(t, jsonpStatusOK, res.StatusCode)
	assert.True(t, completed.Load())
	assert.False(t, succeeded.Load())
	assert.Len(t, scriptSrcs(env), 1, "tag stays when the script never calls back")
}

func TestJSONP_ScriptError(t *testing.T) {
	t.Parallel()
	env, srv := newJSONPEnv(t)

	var failed dto.Response
	var completed atomic.Bool
	cfg := jsonpRequest(srv.URL + "/missing").
		WithComplete(func(dto.Response) { completed.Store(true) }).
		Catch(func(res dto.Response) { failed = res })

	_, err := env.svc.Do(waitCtx(t), cfg)
	require.ErrorIs(t, err, jsonpclient.ErrScriptStatus)
	assert.Equal(t, jsonpStatusError, failed.StatusCode)
	assert.Equal(t, "Error", failed.StatusText)
	assert.ErrorIs(t, failed.Err, jsonpclient.ErrScriptStatus)
	assert.False(t, completed.Load())
}

func TestJSONP_ConstructionFailure(t *testing.T) {
	t.Parallel()
	env, _ := newJSONPEnv(t)

	var failed dto.Response
	cfg := jsonpRequest("http://bad host.test/feed").Catch(func(res dto.Response) { failed = res })

	_, err := env.svc.Do(waitCtx(t), cfg)
	require.Error(t, err)
	assert.Equal(t, err, failed.Err)
	assert.Nil(t, failed.Config)
	assert.Empty(t, scriptSrcs(env))
}

func TestJSONP_PreventDuplicateRemovesPriorTag(t *testing.T) {
	t.Parallel()
	env, srv := newJSONPEnv(t)

	var staleSuccess atomic.Bool
	first := jsonpRequest(srv.URL + "/slow").WithKey("feed")
	first.Then(func(dto.Response) { staleSuccess.Store(true) }, nil)
	h1 := env.svc.Send(context.Background(), first)
	<-srv.slowHit
	require.Equal(t, []string{h1.ScriptSrc()}, scriptSrcs(env))

	second := jsonpRequest(srv.URL + "/feed").WithKey("feed")
	h2 := env.svc.Send(context.Background(), second)
	assert.NotContains(t, scriptSrcs(env), h1.ScriptSrc())

	res, err := h2.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "goajax", res.Data.(map[string]any)["name"])

	srv.release <- struct{}{}
	_, err = h1.Wait(waitCtx(t))
	assert.ErrorIs(t, err, dto.ErrAborted)
	assert.False(t, staleSuccess.Load())
	assert.Contains(t, env.relay.events("feed"), dto.EventAbort)
}

func TestJSONP_NotCancelledByStandardRegistry(t *testing.T) {
	t.Parallel()
	env, srv := newJSONPEnv(t)

	first := jsonpRequest(srv.URL + "/feed").WithKey("feed")
	h1 := env.svc.Send(context.Background(), first)
	second := jsonpRequest(srv.URL + "/feed").WithKey("feed").WithPreventDuplicate(false)
	h2 := env.svc.Send(context.Background(), second)

	_, err := h1.Wait(waitCtx(t))
	require.NoError(t, err)
	_, err = h2.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.False(t, h1.Aborted())
}
