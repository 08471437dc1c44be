package s3client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/joy-dx/goajax/dto"
)

func (c *S3Client) ProcessRequest(ctx context.Context, wire *dto.WireRequest, onStage dto.StageFunc) (dto.Exchange, error) {
	if onStage == nil {
		onStage = func(dto.ReadyState, dto.Exchange) {}
	}

	r, err := newS3Request(wire)
	if err != nil {
		return dto.Exchange{}, fmt.Errorf("build request: %w", err)
	}

	for _, mw := range c.cfg.Middlewares {
		if err := mw(ctx, r); err != nil {
			return dto.Exchange{}, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := r.Finalize(); err != nil {
		return dto.Exchange{}, err
	}

	onStage(dto.Opened, dto.Exchange{})

	var ex dto.Exchange
	switch r.Operation {
	case "get":
		ex, err = c.doGet(ctx, r)
	case "put":
		ex, err = c.doPut(ctx, r)
	case "delete":
		ex, err = c.doDelete(ctx, r)
	case "list":
		ex, err = c.doList(ctx, r)
	default:
		return dto.Exchange{}, fmt.Errorf("unsupported s3 operation: %s", r.Operation)
	}

	var missing *s3types.NoSuchKey
	if errors.As(err, &missing) {
		ex = statusExchange(http.StatusNotFound)
		err = nil
	}
	if err != nil {
		return dto.Exchange{}, err
	}

	onStage(dto.HeadersReceived, ex)
	return ex, nil
}

func statusExchange(code int) dto.Exchange {
	return dto.Exchange{
		StatusCode: code,
		StatusText: http.StatusText(code),
		Headers:    http.Header{},
		Total:      -1,
	}
}
