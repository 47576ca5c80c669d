// Package httpclient is a thin JSON-over-HTTP client for the upstream catalog
// API. Any non-2xx response is returned as a *StatusError.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/anime-catalog/internal/platform/config"
	"github.com/example/anime-catalog/internal/platform/metrics"
)

const (
	maxBodyBytes     = 4 << 20
	errorBodyPreview = 200
	defaultUserAgent = "anime-catalog/1.0"
)

type Client struct {
	http      *http.Client
	apiKey    string
	userAgent string
	metrics   *metrics.Metrics
}

type Option func(*Client)

// WithAPIKey sends the key as a bearer token on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the underlying client, e.g. with httptest's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func New(cfg config.HTTPConfig, opts ...Option) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = cfg.ConnectTimeout
	transport.MaxConnsPerHost = cfg.MaxConnections
	transport.MaxIdleConnsPerHost = cfg.MaxConnections
	transport.ForceAttemptHTTP2 = cfg.HTTP2Enabled

	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout, Transport: transport},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestOptions struct {
	header http.Header
	query  url.Values
}

type RequestOption func(*requestOptions)

func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) { o.header.Set(key, value) }
}

// WithQuery appends a query parameter to the request URL.
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) { o.query.Add(key, value) }
}

func (c *Client) Get(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, rawURL, nil, opts)
}

// Post sends body encoded as JSON. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, rawURL string, body any, opts ...RequestOption) (*Response, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		payload = bytes.NewReader(b)
	}
	return c.do(ctx, http.MethodPost, rawURL, payload, opts)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, opts []RequestOption) (*Response, error) {
	ro := requestOptions{header: http.Header{}, query: url.Values{}}
	for _, opt := range opts {
		opt(&ro)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("httpclient: parse url: %w", err)
	}
	if len(ro.query) > 0 {
		q := u.Query()
		for k, vs := range ro.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, vs := range ro.header {
		req.Header[k] = vs
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(method, 0, time.Since(start))
		return nil, fmt.Errorf("httpclient: %s %s: %w", method, u.Redacted(), err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveUpstream(method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        u.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       string(b[:min(len(b), errorBodyPreview)]),
		}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, body: b}, nil
}

type Response struct {
	StatusCode int
	Header     http.Header
	body       []byte
}

// JSON decodes the body into dst. Failures are *DecodeError.
func (r *Response) JSON(dst any) error {
	if err := json.Unmarshal(r.body, dst); err != nil {
		return &DecodeError{Body: string(r.body[:min(len(r.body), errorBodyPreview)]), Err: err}
	}
	return nil
}
