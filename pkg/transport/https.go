package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrTransport indicates that no HTTP response was obtained at all.
// HTTP error statuses are not transport errors.
var ErrTransport = errors.New("transport error")

// TLS version floor and ceiling.
const (
	TLS12 = tls.VersionTLS12
	TLS13 = tls.VersionTLS13
)

// Config contains HTTPS client configuration.
type Config struct {
	MinTLSVersion   uint16
	Timeout         time.Duration
	IdleConnTimeout time.Duration
	UserAgent       string
	Logger          *slog.Logger
}

// DefaultConfig returns the configuration used when none is given:
// TLS 1.2 minimum, 30 second request timeout.
func DefaultConfig() *Config {
	return &Config{
		MinTLSVersion:   TLS12,
		Timeout:         30 * time.Second,
		IdleConnTimeout: 90 * time.Second,
		UserAgent:       "shinkansen-go/1.0",
	}
}

// Result is the outcome of a delivered request: whatever status and
// body the server produced.
type Result struct {
	StatusCode int
	Body       []byte
}

// Client posts message payloads over HTTPS.
type Client struct {
	client *http.Client
	config *Config
	logger *slog.Logger
}

// NewClient creates an HTTPS client. A nil config selects
// DefaultConfig.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: config.MinTLSVersion,
		},
		IdleConnTimeout:     config.IdleConnTimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		config: config,
		logger: logger,
	}
}

// Post delivers body to endpoint with the given headers and returns the
// server's response verbatim. Non-2xx statuses are results, not errors.
func (c *Client) Post(ctx context.Context, endpoint string, body []byte, headers map[string]string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("posting message", "endpoint", endpoint, "bytes", len(body))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	c.logger.Debug("received response", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(respBody))

	return &Result{StatusCode: resp.StatusCode, Body: respBody}, nil
}
