package s3client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joy-dx/goajax/config"
	"github.com/joy-dx/goajax/dto"
)

const NetClientS3Ref dto.NetClientType = "net.client.s3"

type Middleware func(ctx context.Context, req *S3Request) error

// S3ClientConfig defines the static properties for an S3 client instance.
type S3ClientConfig struct {
	Region         string
	Credentials    aws.CredentialsProvider
	Middlewares    []Middleware
	ForcePathStyle bool
	Endpoint       string // optional custom endpoint
}

// Default config helpers
func DefaultS3ClientConfig(region string) S3ClientConfig {
	return S3ClientConfig{Region: region, Middlewares: []Middleware{}}
}

// S3ClientConfigFrom maps the service file settings onto a client config.
// Credentials come from the default AWS chain.
func S3ClientConfigFrom(c config.S3Config) S3ClientConfig {
	cfg := DefaultS3ClientConfig(c.Region)
	cfg.Endpoint = c.Endpoint
	cfg.ForcePathStyle = c.ForcePathStyle
	return cfg
}

func (c *S3ClientConfig) WithMiddleware(m ...Middleware) *S3ClientConfig {
	c.Middlewares = append(c.Middlewares, m...)
	return c
}
