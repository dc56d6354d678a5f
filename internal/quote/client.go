package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/ryokan-quote/internal/common"
	"github.com/noah-isme/ryokan-quote/internal/resilience"
)

// Client calls a remote quote API.
type Client struct {
	baseURL *url.URL
	http    resilience.HTTPClient
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	// Transport is wrapped with otelhttp; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// APIError is a non-2xx reply carrying the canonical error envelope.
type APIError struct {
	StatusCode int
	common.ErrorBody
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quote api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// NewClient constructs a Client for the API rooted at cfg.BaseURL.
func NewClient(cfg ClientConfig) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", cfg.BaseURL)
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	return &Client{
		baseURL: u,
		http: resilience.HTTPClient{
			Client:      &http.Client{Transport: otelhttp.NewTransport(transport)},
			Breaker:     resilience.NewBreaker(resilience.BreakerOptions{MinRequests: 3, FailureRatio: 0.5, OpenFor: 10 * time.Second, Target: u.Host}),
			MaxAttempts: attempts,
			BaseBackoff: 200 * time.Millisecond,
			MaxBackoff:  5 * time.Second,
			Jitter:      0.2,
			Timeout:     timeout,
		},
	}, nil
}

// Create posts req to /api/v1/quotes.
func (c *Client) Create(ctx context.Context, req Request) (Response, error) {
	var out Response
	err := c.call(ctx, http.MethodPost, "/api/v1/quotes", req, &out)
	return out, err
}

// Defaults fetches the default form values.
func (c *Client) Defaults(ctx context.Context) (Request, error) {
	var out Request
	err := c.call(ctx, http.MethodGet, "/api/v1/quotes/defaults", nil, &out)
	return out, err
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	u := c.baseURL.JoinPath(path)
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
	}
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var envelope common.ErrorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{StatusCode: resp.StatusCode, ErrorBody: envelope.Error}
	}
	envelope := common.DataEnvelope{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
