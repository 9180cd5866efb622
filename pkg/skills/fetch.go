package skills

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultUserAgent = "OpenClaw/1.0"
	defaultTimeout   = 10 * time.Second
)

// fetchResponse is the disposition of one GET request after redirects.
type fetchResponse struct {
	url         string
	statusCode  int
	contentType string
	body        string
}

// fetchPage performs a GET request with the default User-Agent and a
// per-request timeout in seconds (0 means the 10s default). Non-2xx
// responses are returned as data, not errors; callers decide what a
// status code means for their action.
func fetchPage(ctx context.Context, client *http.Client, url string, timeoutSecs float64, headers map[string]string) (*fetchResponse, error) {
	timeout := defaultTimeout
	if timeoutSecs > 0 {
		timeout = time.Duration(timeoutSecs * float64(time.Second))
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "invalid request")
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	return &fetchResponse{
		url:         resp.Request.URL.String(),
		statusCode:  resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        string(body),
	}, nil
}
