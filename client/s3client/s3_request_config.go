package s3client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joy-dx/goajax/dto"
)

var ErrNotS3URL = errors.New("not an s3:// url")

// S3Request is per-call mutable state derived from a WireRequest.
type S3Request struct {
	Operation string // "get", "put", "delete", "list"
	Bucket    string
	Key       string

	Body        []byte
	Prefix      string
	ContentType string

	ExtraOpts map[string]any
	Headers   map[string]string

	// Deterministic prepared AWS inputs (built after middleware)
	PutInput    *s3.PutObjectInput
	GetInput    *s3.GetObjectInput
	DeleteInput *s3.DeleteObjectInput
	ListInput   *s3.ListObjectsV2Input
}

// newS3Request maps s3://bucket/key plus the HTTP method onto an operation.
// A key that is empty or ends with "/" lists that prefix.
func newS3Request(wire *dto.WireRequest) (*S3Request, error) {
	u, err := url.Parse(wire.URL)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", wire.URL, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return nil, fmt.Errorf("%q: %w", wire.URL, ErrNotS3URL)
	}

	r := &S3Request{
		Bucket:    u.Host,
		Key:       strings.TrimPrefix(u.Path, "/"),
		ExtraOpts: map[string]any{},
		Headers:   make(map[string]string, len(wire.Headers)),
	}
	for k := range wire.Headers {
		r.Headers[k] = wire.Headers.Get(k)
	}

	switch strings.ToUpper(wire.Method) {
	case http.MethodGet, http.MethodHead, "":
		if r.Key == "" || strings.HasSuffix(r.Key, "/") {
			r.Operation = "list"
			r.Prefix = r.Key
		} else {
			r.Operation = "get"
		}
	case http.MethodPut, http.MethodPost, http.MethodPatch:
		r.Operation = "put"
		r.Body = append([]byte(nil), wire.Body...)
		r.ContentType = wire.Headers.Get("Content-Type")
		if v := wire.Headers.Get("Cache-Control"); v != "" {
			r.ExtraOpts["cache_control"] = v
		}
	case http.MethodDelete:
		r.Operation = "delete"
	default:
		return nil, fmt.Errorf("unsupported s3 method: %s", wire.Method)
	}
	return r, nil
}
