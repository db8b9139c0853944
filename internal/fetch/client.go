package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/headlandsdaily/coast-events/internal/metrics"
)

const (
	UserAgent      = "coast-events/1.0 (github.com/headlandsdaily/coast-events)"
	DefaultTimeout = 8 * time.Second
)

// NetworkError reports a non-success HTTP status from a source.
type NetworkError struct {
	URL        string
	StatusCode int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
}

// TimeoutError reports a blown per-fetch deadline.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetching %s: deadline exceeded", e.URL)
}

// Client fetches page bodies with a descriptive identity and a per-call
// deadline, consulting the shared cache first. Failures are never retried;
// the caller decides whether to skip or fall back.
type Client struct {
	httpClient *http.Client
	cache      *Cache
	timeout    time.Duration
}

// NewClient creates a client backed by the given cache. Zero timeout falls
// back to DefaultTimeout.
func NewClient(cache *Cache, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{},
		cache:      cache,
		timeout:    timeout,
	}
}

// FetchText returns the body of url as text. Cache hits skip the network
// entirely. On a miss the GET is bounded by the client's per-call deadline
// (or the caller's context, whichever is sooner); a non-2xx status surfaces
// as *NetworkError and an expired deadline as *TimeoutError. Successful
// bodies are cached before returning. sourceID labels metrics only.
func (c *Client) FetchText(ctx context.Context, sourceID, url string) (string, error) {
	if body, ok := c.cache.Get(url); ok {
		metrics.FetchTotal.WithLabelValues(sourceID, "hit").Inc()
		return body, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept-Language", "en-US,en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			metrics.FetchTotal.WithLabelValues(sourceID, "timeout").Inc()
			return "", &TimeoutError{URL: url}
		}
		metrics.FetchTotal.WithLabelValues(sourceID, "network_error").Inc()
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.FetchTotal.WithLabelValues(sourceID, "network_error").Inc()
		return "", &NetworkError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			metrics.FetchTotal.WithLabelValues(sourceID, "timeout").Inc()
			return "", &TimeoutError{URL: url}
		}
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	body := string(data)
	c.cache.Set(url, body)
	metrics.FetchTotal.WithLabelValues(sourceID, "ok").Inc()
	return body, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
