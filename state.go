package goajax

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy-dx/goajax/client/httpclient"
	"github.com/joy-dx/goajax/client/jsonpclient"
	"github.com/joy-dx/goajax/client/s3client"
	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/relays"
)

func (s *AjaxSvc) State() *dto.AjaxState {
	version, _ := s.page.Meta(dto.MetaHistoryVersion)

	return &dto.AjaxState{
		ExtraHeaders:       s.cfg.ExtraHeaders,
		RequestTimeout:     s.cfg.RequestTimeout,
		UserAgent:          s.cfg.UserAgent,
		HistoryVersion:     version,
		InFlight:           s.requests.keys(),
		PendingCallbacks:   s.callbacks.size(),
		RequestsStatus:     s.requestState.GetAll(),
		RegisteredClients:  s.clientRefs(),
		ComponentRestoring: s.componentRestoring(),
	}
}

func (s *AjaxSvc) Hydrate(ctx context.Context) error {
	if s.cfg == nil {
		return errors.New("no ajax config")
	}
	if s.relay == nil {
		return errors.New("no relay implementation")
	}

	if _, ok := s.client(dto.NET_DEFAULT_CLIENT_REF); !ok {
		defaultClientCfg := httpclient.DefaultHTTPClientConfig()
		defaultClientCfg.WithMiddleware(httpclient.RelayMiddleware(s.relay))
		defaultClient := httpclient.NewHTTPClient(dto.NET_DEFAULT_CLIENT_REF, s.cfg, &defaultClientCfg)
		s.RegisterClient(dto.NET_DEFAULT_CLIENT_REF, defaultClient)
	}
	if s.jsonp == nil {
		s.jsonp = jsonpclient.NewRunner(nil)
	}

	if s.cfg.S3.Enabled {
		if _, ok := s.client(dto.NET_S3_CLIENT_REF); !ok {
			s3Cfg := s3client.S3ClientConfigFrom(s.cfg.S3)
			s3Cfg.WithMiddleware(s3client.RelayMiddleware(s.relay), s3client.HeaderMetaMiddleware())
			s3Client, err := s3client.NewS3Client(ctx, dto.NET_S3_CLIENT_REF, &s3Cfg)
			if err != nil {
				return fmt.Errorf("hydrate s3 client: %w", err)
			}
			s.RegisterClient(dto.NET_S3_CLIENT_REF, s3Client)
		}
	}

	version := s.HistoryVersion()
	s.relay.Debug(relays.RlyAjaxLog{Msg: "Ajax service hydrated, history version " + version})
	return nil
}

// WithJSONPRunner replaces the runner used for JSONP requests.
func (s *AjaxSvc) WithJSONPRunner(runner *jsonpclient.Runner) *AjaxSvc {
	s.jsonp = runner
	return s
}
