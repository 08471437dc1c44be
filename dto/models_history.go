package dto

// HistoryState is persisted into a navigation entry. It only carries plain
// data; the success handler travels as a name into the callback registry.
type HistoryState struct {
	URL               string `json:"url" msgpack:"url"`
	Method            string `json:"method" msgpack:"method"`
	Title             string `json:"title,omitempty" msgpack:"title,omitempty"`
	Assets            any    `json:"assets,omitempty" msgpack:"assets,omitempty"`
	ScrollTop         bool   `json:"scrollTop" msgpack:"scrollTop"`
	History           bool   `json:"history" msgpack:"history"`
	HardReloadOnError bool   `json:"hardReloadOnError" msgpack:"hardReloadOnError"`
	CallbackName      string `json:"callName" msgpack:"callName"`
	HistoryVersion    string `json:"historyVersion,omitempty" msgpack:"historyVersion,omitempty"`
}
