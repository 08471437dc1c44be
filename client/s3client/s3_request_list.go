package s3client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joy-dx/goajax/dto"
)

func (c *S3Client) doList(ctx context.Context, r *S3Request) (dto.Exchange, error) {
	out, err := c.client.ListObjectsV2(ctx, r.ListInput)
	if err != nil {
		return dto.Exchange{}, fmt.Errorf("s3 list objects: %w", err)
	}

	buf := bytes.NewBuffer(nil)
	for _, obj := range out.Contents {
		fmt.Fprintf(buf, "%s\n", aws.ToString(obj.Key))
	}

	ex := statusExchange(http.StatusOK)
	ex.Headers.Set("Content-Type", "text/plain")
	ex.Body = buf.Bytes()
	ex.Loaded = int64(buf.Len())
	ex.Total = ex.Loaded
	return ex, nil
}
