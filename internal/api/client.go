// Package api is the REST access layer for the bookkeeping service. Each
// call sends exactly one request and hands back the transport response as
// received: there is no retry, caching, or status translation. Decode is the
// opt-in helper for unwrapping the service's result envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookkeeping/internal/log"
	"bookkeeping/internal/middleware/trace"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client sends requests to the remote API and exposes one resource client per
// entity type.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *log.Logger

	Auth       *AuthAPI
	Categories *CategoryAPI
	Records    *RecordAPI
}

// Param is one query parameter. Params keep their order on the wire.
type Param struct {
	Key   string
	Value string
}

// Response is the raw transport response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Method     string
	URL        string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// New creates a Client. When cfg.HTTPClient is nil a client with a tracing
// transport and cfg.Timeout is built.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported base URL scheme %q", base.Scheme)
	}

	logger := log.OrDefault(cfg.Logger).WithComponent(log.ComponentAPI)
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: trace.NewTransport(nil, logger),
		}
	}

	c := &Client{baseURL: base, http: httpClient, logger: logger}
	c.Auth = &AuthAPI{c: c}
	c.Categories = &CategoryAPI{c: c}
	c.Records = &RecordAPI{c: c}
	return c, nil
}

// BaseURL returns the API root all paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do sends one request. A non-nil body is JSON encoded. Transport failures
// are returned as errors; any HTTP status, including 4xx and 5xx, is returned
// as a Response.
func (c *Client) Do(ctx context.Context, method, path string, params []Param, body any) (*Response, error) {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = encodeParams(params)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
		Method:     method,
		URL:        u.String(),
	}, nil
}

func encodeParams(params []Param) string {
	if len(params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
