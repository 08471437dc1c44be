package s3client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joy-dx/goajax/dto"
)

func (c *S3Client) doPut(ctx context.Context, r *S3Request) (dto.Exchange, error) {
	_, err := c.client.PutObject(ctx, r.PutInput)
	if err != nil {
		return dto.Exchange{}, fmt.Errorf("s3 put object: %w", err)
	}
	return statusExchange(http.StatusOK), nil
}
