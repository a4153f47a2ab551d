// Package scrapeproxy is a typed client for the marketplace scraping-proxy
// API. The proxy fetches a target page on our behalf, optionally rendering
// JavaScript and routing through residential IPs, and returns the raw HTML.
package scrapeproxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the scraping proxy.
const defaultBaseURL = "https://api.scraperapi.com"

// Client defines the scraping-proxy operations.
type Client interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

// Request describes one proxied page fetch.
type Request struct {
	// URL is the target page to fetch through the proxy.
	URL string

	// Render asks the proxy to execute JavaScript before returning HTML.
	Render bool

	// CountryCode selects the proxy exit country (e.g. "us").
	CountryCode string

	// Premium routes the request through residential proxies.
	Premium bool

	// SessionID pins the request to a proxy session. Callers rotate this
	// per attempt so retries exit from fresh IPs.
	SessionID string

	// UserAgent is forwarded to the target site.
	UserAgent string

	// KeepHeaders passes our headers through instead of the proxy's own.
	KeepHeaders bool

	// DeviceType hints the proxy's anti-detection profile ("desktop").
	DeviceType string
}

// Response is the raw proxied page.
type Response struct {
	StatusCode int
	Body       string
}

// APIError is returned when the proxy itself rejects the request.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scrapeproxy: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default proxy endpoint.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new scraping-proxy client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch requests the target page through the proxy and returns its HTML.
// Non-2xx statuses from the proxy yield an *APIError; the target page's own
// status is what the proxy relays, so a 2xx here means HTML was delivered.
func (c *httpClient) Fetch(ctx context.Context, r Request) (*Response, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("url", r.URL)
	q.Set("render", strconv.FormatBool(r.Render))
	if r.CountryCode != "" {
		q.Set("country_code", r.CountryCode)
	}
	if r.Premium {
		q.Set("premium", "true")
	}
	if r.SessionID != "" {
		q.Set("session_number", r.SessionID)
	}
	if r.KeepHeaders {
		q.Set("keep_headers", "true")
	}
	if r.DeviceType != "" {
		q.Set("device_type", r.DeviceType)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrapeproxy: create request")
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scrapeproxy: execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "scrapeproxy: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(data),
	}, nil
}
