package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// GetBytes fetches url and returns at most limit bytes of its body. A body
// larger than limit is an error, not a truncated result.
func GetBytes(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	if limit <= 0 {
		return io.ReadAll(resp.Body)
	}

	if resp.ContentLength > limit {
		return nil, fmt.Errorf("GET %s: body is %d bytes, limit is %d", url, resp.ContentLength, limit)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", url, limit)
	}
	return b, nil
}
