// Package apiclient is the typed REST client for the storefront backend.
//
// Every backend operation is one method mapping arguments to a URL and a JSON
// payload. The client holds no business logic: pricing, loyalty accrual,
// voucher validation and authorization all live in the backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// placeholderToken is what a browser stored when the login response had no token.
const placeholderToken = "undefined"

const maxResponseBytes = 8 << 20

// TokenSource resolves the bearer token for an outgoing request.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) string

func (f TokenSourceFunc) Token(ctx context.Context) string { return f(ctx) }

// Config configures a Client.
type Config struct {
	// BaseURL is the backend origin, e.g. http://localhost:8080.
	BaseURL string
	// APIPath is prefixed to every route. Defaults to "/api/".
	APIPath string
	// Timeout bounds each attempt. Zero means no timeout.
	Timeout time.Duration
	// MaxRetries defaults to 0: every call is sent exactly once.
	MaxRetries int
	// Tokens feeds the Authorization interceptor. Optional.
	Tokens TokenSource
	// HTTPClient overrides the underlying transport client (tests).
	HTTPClient *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	base   *url.URL
	rc     *retryablehttp.Client
	tokens TokenSource
}

// New builds a client. It fails only on an unparsable BaseURL.
func New(cfg Config) (*Client, error) {
	apiPath := cfg.APIPath
	if apiPath == "" {
		apiPath = "/api/"
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.Trim(apiPath, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("apiclient: base url must be absolute: %q", cfg.BaseURL)
	}

	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = cfg.MaxRetries
	if rc.RetryMax < 0 {
		rc.RetryMax = 0
	}
	if cfg.HTTPClient != nil {
		rc.HTTPClient = cfg.HTTPClient
	}
	rc.HTTPClient.Timeout = cfg.Timeout
	// Hand the final response back instead of a "giving up" error so the
	// caller sees the backend's status and message.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{base: base, rc: rc, tokens: cfg.Tokens}, nil
}

// BaseURL returns the resolved API root, e.g. http://localhost:8080/api/.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token(ctx)
}

// authorize is the request interceptor. The token's shape is not checked.
func (c *Client) authorize(ctx context.Context, req *retryablehttp.Request) {
	tok := c.token(ctx)
	if tok != "" && tok != placeholderToken {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// resolve joins an already-escaped route onto the API root.
func (c *Client) resolve(route string) string {
	return c.base.String() + strings.TrimPrefix(route, "/")
}

func (c *Client) do(ctx context.Context, method, route string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", method, route, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.resolve(route), payload)
	if err != nil {
		return fmt.Errorf("apiclient: build %s %s: %w", method, route, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(ctx, req)

	resp, err := c.rc.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("apiclient: read %s %s: %w", method, route, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(method, route, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s: %w", method, route, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, route string, out any) error {
	return c.do(ctx, http.MethodGet, route, nil, out)
}

func (c *Client) post(ctx context.Context, route string, body, out any) error {
	return c.do(ctx, http.MethodPost, route, body, out)
}

func (c *Client) put(ctx context.Context, route string, body, out any) error {
	return c.do(ctx, http.MethodPut, route, body, out)
}

func (c *Client) delete(ctx context.Context, route string, out any) error {
	return c.do(ctx, http.MethodDelete, route, nil, out)
}

// seg escapes one path segment.
func seg(id string) string {
	return url.PathEscape(id)
}
