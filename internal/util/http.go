package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

var client = http.Client{Timeout: 12 * time.Second}

// GetBytes fetches url and returns the body. Non-2xx responses are errors.
func GetBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
