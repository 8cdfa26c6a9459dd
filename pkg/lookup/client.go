// Package lookup provides a client for the LAVB water-detail endpoint.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/brandenburg-angeln/spot-cli/internal/model"
)

// DefaultBaseURL is the production detail endpoint.
const DefaultBaseURL = "https://gws.lavb.de"

// Client fetches the raw detail record for one water identifier.
type Client interface {
	// Fetch queries the detail endpoint for a single identifier.
	Fetch(ctx context.Context, id string) (model.RawRecord, error)
}

// StatusError reports a non-2xx response from the detail endpoint.
type StatusError struct {
	ID         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lookup: id %q: unexpected status %d", e.ID, e.StatusCode)
}

// Option configures the lookup client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(base string) Option {
	return func(c *httpClient) {
		c.baseURL = base
	}
}

// WithHTTPClient sets a custom HTTP client. Its timeout bounds each request;
// a timed-out request surfaces as a transport error for that identifier only.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithRateLimit caps requests per second against the endpoint. A zero or
// negative rps leaves the client unthrottled.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a detail-endpoint client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   DefaultBaseURL,
		userAgent: "spot-cli/1.0",
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs GET {base}/api/detail?gewaesser_id={id} and decodes the JSON
// body. Non-2xx status and decode failures return typed errors so the caller
// can record them without aborting a batch.
func (c *httpClient) Fetch(ctx context.Context, id string) (model.RawRecord, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "lookup: rate limit wait")
		}
	}

	u := fmt.Sprintf("%s/api/detail?gewaesser_id=%s", c.baseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: build request for %q", id)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: request %q", id)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, &StatusError{ID: id, StatusCode: resp.StatusCode}
	}

	var rec model.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, eris.Wrapf(err, "lookup: decode response for %q", id)
	}

	return rec, nil
}
