package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

type NetClient struct {
	Name        string        `json:"name" yaml:"name"`
	Ref         string        `json:"ref" yaml:"ref"`
	ClientType  NetClientType `json:"client_type" yaml:"client_type"`
	Description string        `json:"description" yaml:"description"`
}

// WireRequest is the fully prepared request handed to a NetClientInterface.
type WireRequest struct {
	Method          string
	URL             string
	Headers         http.Header
	Body            []byte
	WithCredentials bool
	Async           bool
}

// Exchange is what a client observed on the wire so far.
type Exchange struct {
	StatusCode int
	StatusText string
	Headers    http.Header
	Body       []byte
	// Loaded body bytes read so far, Total is -1 when the length is unknown
	Loaded int64
	Total  int64
}

// Response is the normalized shape handed to every callback.
type Response struct {
	Config     *RequestConfig `json:"-" yaml:"-"`
	Data       any            `json:"data,omitempty" yaml:"data,omitempty"`
	Body       []byte         `json:"-" yaml:"-"`
	Headers    http.Header    `json:"headers,omitempty" yaml:"headers,omitempty"`
	Request    *WireRequest   `json:"-" yaml:"-"`
	StatusCode int            `json:"status" yaml:"status"`
	StatusText string         `json:"status_text" yaml:"status_text"`
	Timestamp  time.Time      `json:"timestamp" yaml:"timestamp"`
	ReadyState ReadyState     `json:"ready_state" yaml:"ready_state"`
	// Err carries a raw failure when no normalized response could be built
	Err error `json:"-" yaml:"-"`
}

// Get runs a gjson path against a JSON body.
func (r Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Header returns the first value of a response header.
func (r Response) Header(name string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers.Get(name)
}

// DecodeData parses the body as JSON when the content type says so and the
// transfer is complete, keeping the raw body string otherwise.
func DecodeData(body []byte, contentType string, stage ReadyState) any {
	if len(body) == 0 {
		return nil
	}
	if stage == Complete && strings.Contains(contentType, "json") {
		var parsed any
		if err := json.Unmarshal(body, &parsed); err == nil {
			switch parsed.(type) {
			case map[string]any, []any:
				return parsed
			}
		}
	}
	return string(body)
}

// RequestNotification is the last observed lifecycle of a request key.
type RequestNotification struct {
	Key        string     `json:"key" yaml:"key"`
	URL        string     `json:"url" yaml:"url"`
	Method     string     `json:"method" yaml:"method"`
	Event      EventType  `json:"event,omitempty" yaml:"event,omitempty"`
	ReadyState ReadyState `json:"ready_state" yaml:"ready_state"`
	StatusCode int        `json:"status" yaml:"status"`
	Message    string     `json:"message,omitempty" yaml:"message,omitempty"`
	// Downloaded body bytes read so far
	Downloaded int64 `json:"downloaded,omitempty" yaml:"downloaded,omitempty"`
	// TotalSize content length in bytes. The value -1 indicates that the length is unknown
	TotalSize int64     `json:"total_size,omitempty" yaml:"total_size,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

type AjaxState struct {
	ExtraHeaders       ExtraHeaders                   `json:"ajax_extra_headers,omitempty" yaml:"ajax_extra_headers,omitempty"`
	RequestTimeout     time.Duration                  `json:"ajax_request_timeout,omitempty" yaml:"ajax_request_timeout,omitempty"`
	UserAgent          string                         `json:"ajax_user_agent,omitempty" yaml:"ajax_user_agent,omitempty"`
	HistoryVersion     string                         `json:"ajax_history_version,omitempty" yaml:"ajax_history_version,omitempty"`
	InFlight           []string                       `json:"ajax_in_flight,omitempty" yaml:"ajax_in_flight,omitempty"`
	PendingCallbacks   int                            `json:"ajax_pending_callbacks" yaml:"ajax_pending_callbacks"`
	RequestsStatus     map[string]RequestNotification `json:"ajax_requests_status,omitempty" yaml:"ajax_requests_status,omitempty"`
	RegisteredClients  []string                       `json:"ajax_registered_clients,omitempty" yaml:"ajax_registered_clients,omitempty"`
	ComponentRestoring bool                           `json:"ajax_component_restoring" yaml:"ajax_component_restoring"`
}
