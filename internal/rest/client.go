// Package rest holds the small JSON-over-HTTP client shared by the article and
// definition sources, plus the error taxonomy both of them report.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxBodyBytes       = 4 << 20
	errorSnippetBytes  = 512
)

// Client issues GET requests and decodes JSON responses.
type Client struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// NewClient wraps custom, or a client with a conservative timeout when custom
// is nil. Per-request deadlines come from the caller's context.
func NewClient(custom *http.Client, userAgent string) *Client {
	client := custom
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{http: client, userAgent: strings.TrimSpace(userAgent)}
}

// WithLimiter paces every request through l. A nil limiter disables pacing.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// NewLimiter returns a limiter allowing perSecond requests with the given
// burst, or nil when perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// GetJSON fetches url and decodes the body into out. Transport errors and
// non-2xx responses become *NetworkError; bodies that fail to decode become
// *DecodeError. source names the remote in error messages.
func (c *Client) GetJSON(ctx context.Context, source, url string, headers http.Header, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Source: source, Err: err}
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &NetworkError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetBytes))
		return &NetworkError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s (%s)", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return &NetworkError{Source: source, StatusCode: resp.StatusCode, Err: err}
	}
	if len(body) > maxBodyBytes {
		return &DecodeError{Source: source, Err: errors.New("response body too large")}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Source: source, Err: err}
	}
	return nil
}
