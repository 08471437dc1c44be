package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joy-dx/goajax/dto"
	relayDTO "github.com/joy-dx/relay/dto"
	"gopkg.in/yaml.v3"
)

// AjaxSvcConfig holds the service wide settings. Per request behaviour lives
// in dto.RequestConfig.
type AjaxSvcConfig struct {
	relay relayDTO.RelayInterface

	ExtraHeaders   dto.ExtraHeaders `json:"ajax_extra_headers" yaml:"extra_headers"`
	RequestTimeout time.Duration    `json:"ajax_request_timeout" yaml:"request_timeout"`
	UserAgent      string           `json:"ajax_user_agent" yaml:"user_agent"`
	// LoadingInterval throttles Loading notifications while a body is read
	LoadingInterval time.Duration `json:"ajax_loading_interval" yaml:"loading_interval"`
	// MaxShiftAttempts bounds component shift retries caused by navigation
	MaxShiftAttempts   int      `json:"ajax_max_shift_attempts" yaml:"max_shift_attempts"`
	JSONPCallbackParam string   `json:"ajax_jsonp_callback_param" yaml:"jsonp_callback_param"`
	S3                 S3Config `json:"ajax_s3" yaml:"s3"`
}

// S3Config enables the s3:// transport when Bucket access is configured.
type S3Config struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	Region         string `json:"region" yaml:"region"`
	Endpoint       string `json:"endpoint" yaml:"endpoint"`
	ForcePathStyle bool   `json:"force_path_style" yaml:"force_path_style"`
}

func DefaultAjaxSvcConfig() AjaxSvcConfig {
	return AjaxSvcConfig{
		ExtraHeaders:       dto.ExtraHeaders{},
		RequestTimeout:     60 * time.Second,
		UserAgent:          "goajax",
		LoadingInterval:    250 * time.Millisecond,
		MaxShiftAttempts:   5,
		JSONPCallbackParam: dto.DefaultJSONPParam,
	}
}

// LoadFile overlays a YAML file on top of the defaults.
func LoadFile(path string) (*AjaxSvcConfig, error) {
	cfg := DefaultAjaxSvcConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if cfg.ExtraHeaders == nil {
		cfg.ExtraHeaders = dto.ExtraHeaders{}
	}
	return &cfg, nil
}

func (c *AjaxSvcConfig) Relay() relayDTO.RelayInterface {
	return c.relay
}

func (c *AjaxSvcConfig) WithRelay(relay relayDTO.RelayInterface) *AjaxSvcConfig {
	c.relay = relay
	return c
}

func (c *AjaxSvcConfig) WithExtraHeaders(headers dto.ExtraHeaders) *AjaxSvcConfig {
	c.ExtraHeaders = headers
	return c
}

func (c *AjaxSvcConfig) WithRequestTimeout(d time.Duration) *AjaxSvcConfig {
	c.RequestTimeout = d
	return c
}

func (c *AjaxSvcConfig) WithUserAgent(agent string) *AjaxSvcConfig {
	c.UserAgent = agent
	return c
}

func (c *AjaxSvcConfig) WithLoadingInterval(d time.Duration) *AjaxSvcConfig {
	c.LoadingInterval = d
	return c
}

func (c *AjaxSvcConfig) WithMaxShiftAttempts(n int) *AjaxSvcConfig {
	c.MaxShiftAttempts = n
	return c
}

func (c *AjaxSvcConfig) WithJSONPCallbackParam(param string) *AjaxSvcConfig {
	c.JSONPCallbackParam = param
	return c
}
