package dto

type NetClientType string

const (
	NET_DEFAULT_CLIENT_REF = "default"
	NET_JSONP_CLIENT_REF   = "jsonp"
	NET_S3_CLIENT_REF      = "s3"
)

// Wire and page metadata names shared with the server side.
const (
	HeaderHistoryVersion = "X-History-Version"
	HeaderCSRFToken      = "X-CSRF-TOKEN"
	HeaderRequestedWith  = "X-Requested-With"
	HeaderContentType    = "Content-type"

	RequestedWithValue = "XMLHttpRequest"
	ContentURLEncoded  = "application/x-www-form-urlencoded"

	MetaCSRFToken      = "csrf-token"
	MetaHistoryVersion = "x-history-version"
	MetaComponentState = "x-history-state"

	DefaultComponentName = "x-component-item"
	DefaultJSONPParam    = "callback"
)

const (
	MethodJSONP = "JSONP"
)

// ReadyState mirrors the lifecycle labels of a browser transport.
type ReadyState string

const (
	Uninitialized   ReadyState = "Uninitialized"
	Opened          ReadyState = "Opened"
	HeadersReceived ReadyState = "Headers Received"
	Loading         ReadyState = "Loading"
	Complete        ReadyState = "Complete"
	JSONP           ReadyState = "JSONP"
	Abort           ReadyState = "Abort"
)

// EventType names of the observational event surface.
type EventType string

const (
	EventAbort        EventType = "vueajaxabort"
	EventAjaxStart    EventType = "vueajaxstart"
	EventAjaxComplete EventType = "vueajaxcomplete"
	EventAjaxSuccess  EventType = "vueajaxsuccess"
	EventAjaxError    EventType = "vueajaxerror"

	EventHistoryStart    EventType = "vueajaxhistorystart"
	EventHistoryComplete EventType = "vueajaxhistorycomplete"
	EventHistorySuccess  EventType = "vueajaxhistorysuccess"
	EventHistoryError    EventType = "vueajaxhistoryerror"

	EventShifterStart    EventType = "componentshifterstart"
	EventShifterComplete EventType = "componentshiftercomplete"
	EventShifterSuccess  EventType = "componentshiftersuccess"
	EventShifterError    EventType = "componentshiftererror"
)

// IsTerminal reports whether no further events follow for a request key.
func (e EventType) IsTerminal() bool {
	switch e {
	case EventAbort, EventAjaxSuccess, EventAjaxError:
		return true
	}
	return false
}

var urlEncodedMethods = []string{"POST", "PUT", "PATCH", "DELETE"}

// IsURLEncodedMethod reports whether data travels in the request body for method.
func IsURLEncodedMethod(method string) bool {
	for _, m := range urlEncodedMethods {
		if m == method {
			return true
		}
	}
	return false
}
