package s3client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/joy-dx/goajax/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// StaticS3MetaMiddleware adds default metadata to each S3 put operation.
func StaticS3MetaMiddleware(meta map[string]string) Middleware {
	return func(ctx context.Context, r *S3Request) error {
		if r.Operation != "put" {
			return nil
		}
		if r.ExtraOpts == nil {
			r.ExtraOpts = map[string]any{}
		}

		// Ensure metadata container exists
		mdAny, ok := r.ExtraOpts["metadata"]
		var md map[string]string
		if ok {
			if existing, ok := mdAny.(map[string]string); ok {
				md = existing
			}
		}
		if md == nil {
			md = make(map[string]string)
		}

		for k, v := range meta {
			md[k] = v
		}

		r.ExtraOpts["metadata"] = md
		return nil
	}
}

// RelayMiddleware reports every S3 operation at debug level.
func RelayMiddleware(relay relayDTO.RelayInterface) Middleware {
	return func(ctx context.Context, r *S3Request) error {
		if relay != nil {
			relay.Debug(relays.RlyAjaxLog{Msg: fmt.Sprintf("[S3] %s s3://%s/%s",
				strings.ToUpper(r.Operation), r.Bucket, r.Key)})
		}
		return nil
	}
}

// HeaderMetaMiddleware copies X-Amz-Meta-* request headers into the object
// metadata of put operations.
func HeaderMetaMiddleware() Middleware {
	return func(ctx context.Context, r *S3Request) error {
		meta := map[string]string{}
		for k, v := range r.Headers {
			if name, ok := strings.CutPrefix(http.CanonicalHeaderKey(k), "X-Amz-Meta-"); ok && name != "" {
				meta[strings.ToLower(name)] = v
			}
		}
		if len(meta) == 0 {
			return nil
		}
		return StaticS3MetaMiddleware(meta)(ctx, r)
	}
}
