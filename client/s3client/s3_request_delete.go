package s3client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joy-dx/goajax/dto"
)

func (c *S3Client) doDelete(ctx context.Context, r *S3Request) (dto.Exchange, error) {
	_, err := c.client.DeleteObject(ctx, r.DeleteInput)
	if err != nil {
		return dto.Exchange{}, fmt.Errorf("s3 delete object: %w", err)
	}
	return statusExchange(http.StatusOK), nil
}
