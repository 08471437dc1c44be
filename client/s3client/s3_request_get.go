package s3client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/utils"
)

func (c *S3Client) doGet(ctx context.Context, r *S3Request) (dto.Exchange, error) {
	out, err := c.client.GetObject(ctx, r.GetInput)
	if err != nil {
		return dto.Exchange{}, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return dto.Exchange{}, fmt.Errorf("read s3 object: %w", err)
	}

	ex := statusExchange(http.StatusOK)
	ex.Headers = utils.MapToHeader(out.Metadata)
	if ct := aws.ToString(out.ContentType); ct != "" {
		ex.Headers.Set("Content-Type", ct)
	}
	ex.Body = data
	ex.Loaded = int64(len(data))
	ex.Total = ex.Loaded
	return ex, nil
}
