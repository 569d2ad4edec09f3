// Package fetch provides the shared HTTP transport used by every ATS adapter.
// All requests go through one http.Client with a hard timeout and carry a
// browser-like User-Agent; responses are decoded as JSON with numbers kept
// as json.Number.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the hard timeout applied to every request.
const DefaultTimeout = 12 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// Response holds the raw result of a request.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Error represents a transport or decode failure for a single request.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns the defaults used by the scraper.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client issues JSON requests against ATS endpoints. It is safe for concurrent use.
type Client struct {
	http *http.Client
	opts Options
}

// NewClient creates a client. A nil opts uses DefaultOptions.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
	}
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.opts.Timeout
}

// Do sends a request. A non-nil payload is JSON encoded as the body. A
// non-200 status returns the response together with an *Error.
func (c *Client) Do(ctx context.Context, method, urlStr string, payload any) (*Response, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{URL: urlStr, Message: "failed to encode request body", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", StatusCode: resp.StatusCode, Cause: err}
	}

	result := &Response{
		URL:         urlStr,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        bodyBytes,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// GetJSON issues a GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, urlStr string, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// PostJSON issues a POST with a JSON payload and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, urlStr string, payload, out any) error {
	resp, err := c.Do(ctx, http.MethodPost, urlStr, payload)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

func decodeInto(resp *Response, out any) error {
	if err := DecodeJSON(resp.Body, out); err != nil {
		return &Error{
			URL:        resp.URL,
			Message:    "failed to decode JSON response",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}
	return nil
}

// DecodeJSON unmarshals data into out, keeping numbers as json.Number.
func DecodeJSON(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}
