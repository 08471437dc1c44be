package dto

import (
	"context"
)

type AjaxInterface interface {
	Hydrate(ctx context.Context) error
	State() *AjaxState
	RegisterClient(ref string, client NetClientInterface)
	Do(ctx context.Context, cfg *RequestConfig) (Response, error)
	Get(ctx context.Context, url string, data any) (Response, error)
	Post(ctx context.Context, url string, data any) (Response, error)
	HistoryVersion() string
}

// AuthProvider defines methods for non-OAuth authentication schemes.
// Returned dto.TokenInfo may include cookies or access tokens.
type AuthProvider interface {
	Authenticate(ctx context.Context) (TokenInfo, error)
	Refresh(ctx context.Context, old TokenInfo) (TokenInfo, error)
}

// StageFunc receives every ready state change of an exchange in progress.
type StageFunc func(stage ReadyState, ex Exchange)

// NetClientInterface performs one standard (non JSONP) exchange.
type NetClientInterface interface {
	Ref() string
	Type() NetClientType
	ProcessRequest(ctx context.Context, req *WireRequest, onStage StageFunc) (Exchange, error)
}
