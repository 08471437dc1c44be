package httpclient

import (
	"context"
	"io"
	"time"
)

// progressReader reports body bytes read at most once per interval.
type progressReader struct {
	ctx        context.Context
	reader     io.Reader
	total      int64
	readSoFar  int64
	lastReport time.Time
	interval   time.Duration
	onProgress func(loaded, total int64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	select {
	case <-pr.ctx.Done():
		return 0, pr.ctx.Err()
	default:
	}

	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.readSoFar += int64(n)
		now := time.Now()
		if now.Sub(pr.lastReport) >= pr.interval {
			pr.onProgress(pr.readSoFar, pr.total)
			pr.lastReport = now
		}
	}

	return n, err
}
