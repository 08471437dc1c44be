package dto

import (
	"strings"
	"time"
)

type RequestConfig struct {
	URL    string `json:"url" yaml:"url"`
	Method string `json:"method" yaml:"method"`
	// Data nested mapping: map[string]any, Fields or slices
	Data    any               `json:"data,omitempty" yaml:"data,omitempty"`
	URLData any               `json:"url_data,omitempty" yaml:"url_data,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Key dedup identity, defaults to URL
	Key             string        `json:"key,omitempty" yaml:"key,omitempty"`
	ClientRef       string        `json:"client_ref,omitempty" yaml:"client_ref,omitempty"`
	Cache           bool          `json:"cache" yaml:"cache"`
	WithCredentials bool          `json:"with_credentials" yaml:"with_credentials"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout"`
	FileInputs      []FileInput   `json:"-" yaml:"-"`
	History         bool          `json:"history" yaml:"history"`
	Title           string        `json:"title,omitempty" yaml:"title,omitempty"`
	ScrollTop       bool          `json:"scroll_top" yaml:"scroll_top"`
	// Assets recursive list or mapping of asset URLs
	Assets             any    `json:"assets,omitempty" yaml:"assets,omitempty"`
	JSONPCallbackParam string `json:"jsonp_callback_param,omitempty" yaml:"jsonp_callback_param,omitempty"`

	// Opt outs. The zero value is asynchronous, sends the CSRF token,
	// supersedes a request of the same key and hard redirects on error.
	Sync               bool `json:"sync,omitempty" yaml:"sync,omitempty"`
	SkipCSRF           bool `json:"skip_csrf,omitempty" yaml:"skip_csrf,omitempty"`
	AllowDuplicate     bool `json:"allow_duplicate,omitempty" yaml:"allow_duplicate,omitempty"`
	SuppressHardReload bool `json:"suppress_hard_reload,omitempty" yaml:"suppress_hard_reload,omitempty"`

	Before      func()         `json:"-" yaml:"-"`
	Success     func(Response) `json:"-" yaml:"-"`
	Error       func(Response) `json:"-" yaml:"-"`
	Complete    func(Response) `json:"-" yaml:"-"`
	StateChange func(Response) `json:"-" yaml:"-"`
}

func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		Method:             "GET",
		Timeout:            60 * time.Second,
		JSONPCallbackParam: DefaultJSONPParam,
	}
}

// NormalizedMethod upper cases the method and falls back to GET.
func (c *RequestConfig) NormalizedMethod() string {
	m := strings.ToUpper(strings.TrimSpace(c.Method))
	if m == "" {
		return "GET"
	}
	return m
}

func (c *RequestConfig) Async() bool { return !c.Sync }

func (c *RequestConfig) SendsCSRF() bool { return !c.SkipCSRF }

// PreventsDuplicate reports whether the request supersedes an in-flight
// request of the same key.
func (c *RequestConfig) PreventsDuplicate() bool { return !c.AllowDuplicate }

func (c *RequestConfig) HardReloadOnError() bool { return !c.SuppressHardReload }

// RequestKey returns the dedup identity of the request.
func (c *RequestConfig) RequestKey() string {
	if c.Key != "" {
		return c.Key
	}
	return c.URL
}

// Clone copies the config; callbacks and nested data are shared.
func (c *RequestConfig) Clone() *RequestConfig {
	cpy := *c
	if c.Headers != nil {
		cpy.Headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			cpy.Headers[k] = v
		}
	}
	if c.FileInputs != nil {
		cpy.FileInputs = append([]FileInput(nil), c.FileInputs...)
	}
	return &cpy
}

func (c *RequestConfig) WithURL(url string) *RequestConfig {
	c.URL = url
	return c
}

func (c *RequestConfig) WithMethod(method string) *RequestConfig {
	c.Method = method
	return c
}

func (c *RequestConfig) WithData(data any) *RequestConfig {
	c.Data = data
	return c
}

func (c *RequestConfig) WithURLData(data any) *RequestConfig {
	c.URLData = data
	return c
}

func (c *RequestConfig) WithHeaders(headers map[string]string) *RequestConfig {
	c.Headers = headers
	return c
}

func (c *RequestConfig) WithKey(key string) *RequestConfig {
	c.Key = key
	return c
}

func (c *RequestConfig) WithClientRef(ref string) *RequestConfig {
	c.ClientRef = ref
	return c
}

func (c *RequestConfig) WithCache(cache bool) *RequestConfig {
	c.Cache = cache
	return c
}

func (c *RequestConfig) WithAsync(async bool) *RequestConfig {
	c.Sync = !async
	return c
}

func (c *RequestConfig) WithCSRF(csrf bool) *RequestConfig {
	c.SkipCSRF = !csrf
	return c
}

func (c *RequestConfig) WithCredentialsMode(enabled bool) *RequestConfig {
	c.WithCredentials = enabled
	return c
}

func (c *RequestConfig) WithTimeout(duration time.Duration) *RequestConfig {
	c.Timeout = duration
	return c
}

func (c *RequestConfig) WithPreventDuplicate(prevent bool) *RequestConfig {
	c.AllowDuplicate = !prevent
	return c
}

func (c *RequestConfig) WithFileInputs(inputs ...FileInput) *RequestConfig {
	c.FileInputs = append(c.FileInputs, inputs...)
	return c
}

func (c *RequestConfig) WithHistory(history bool) *RequestConfig {
	c.History = history
	return c
}

func (c *RequestConfig) WithTitle(title string) *RequestConfig {
	c.Title = title
	return c
}

func (c *RequestConfig) WithScrollTop(scroll bool) *RequestConfig {
	c.ScrollTop = scroll
	return c
}

func (c *RequestConfig) WithAssets(assets any) *RequestConfig {
	c.Assets = assets
	return c
}

func (c *RequestConfig) WithHardReloadOnError(reload bool) *RequestConfig {
	c.SuppressHardReload = !reload
	return c
}

func (c *RequestConfig) WithJSONPCallbackParam(param string) *RequestConfig {
	c.JSONPCallbackParam = param
	return c
}

func (c *RequestConfig) WithBefore(fn func()) *RequestConfig {
	c.Before = fn
	return c
}

// Then sets the success and error callbacks together.
func (c *RequestConfig) Then(success, failure func(Response)) *RequestConfig {
	c.Success = success
	c.Error = failure
	return c
}

func (c *RequestConfig) Catch(failure func(Response)) *RequestConfig {
	c.Error = failure
	return c
}

func (c *RequestConfig) WithComplete(fn func(Response)) *RequestConfig {
	c.Complete = fn
	return c
}

func (c *RequestConfig) WithStateChange(fn func(Response)) *RequestConfig {
	c.StateChange = fn
	return c
}
