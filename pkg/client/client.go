package client

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"log/slog"

	"github.com/shinkansenfinance/shinkansen-go/pkg/payins"
	"github.com/shinkansenfinance/shinkansen-go/pkg/payouts"
	"github.com/shinkansenfinance/shinkansen-go/pkg/security"
	"github.com/shinkansenfinance/shinkansen-go/pkg/transport"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.shinkansen.finance/v1"

// HTTP headers carrying the API credentials and the detached signature.
const (
	APIKeyHeader       = "Shinkansen-Api-Key"
	JWSSignatureHeader = "Shinkansen-JWS-Signature"
)

// Client signs and delivers messages to the platform API.
type Client struct {
	baseURL string
	apiKey  string
	key     crypto.Signer
	cert    *x509.Certificate
	http    *transport.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, e.g. for a sandbox
// environment.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTPS client.
func WithHTTPClient(httpClient *transport.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client signing with an in-memory RSA key.
func New(apiKey string, key *rsa.PrivateKey, cert *x509.Certificate, opts ...Option) *Client {
	return NewWithSigner(apiKey, key, cert, opts...)
}

// NewWithSigner creates a client signing through a crypto.Signer, which
// may front an HSM-resident key.
func NewWithSigner(apiKey string, key crypto.Signer, cert *x509.Certificate, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		key:     key,
		cert:    cert,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		cfg := transport.DefaultConfig()
		cfg.Logger = c.logger
		c.http = transport.NewClient(cfg)
	}
	return c
}

// SignPayouts serializes and signs a payout message, returning the
// canonical payload bytes and the detached signature. The returned
// payload is exactly what must later be posted; re-serializing would
// not be guaranteed to reproduce the signed bytes.
func (c *Client) SignPayouts(msg *payouts.Message) (payload []byte, signature string, err error) {
	payload, err = msg.CanonicalJSON()
	if err != nil {
		return nil, "", err
	}
	signature, err = c.sign(payload)
	if err != nil {
		return nil, "", err
	}
	return payload, signature, nil
}

// SendPayouts delivers previously signed payload bytes to the payout
// endpoint.
func (c *Client) SendPayouts(ctx context.Context, payload []byte, signature string) (*payouts.HTTPResponse, error) {
	result, err := c.post(ctx, "/messages/payouts", payload, signature)
	if err != nil {
		return nil, err
	}
	return payouts.ParseHTTPResponse(result.StatusCode, result.Body), nil
}

// SignAndSendPayouts signs and delivers a payout message in one call.
func (c *Client) SignAndSendPayouts(ctx context.Context, msg *payouts.Message) (*payouts.HTTPResponse, error) {
	payload, signature, err := c.SignPayouts(msg)
	if err != nil {
		return nil, err
	}
	return c.SendPayouts(ctx, payload, signature)
}

// SignPayins serializes and signs a payin message, returning the
// canonical payload bytes and the detached signature.
func (c *Client) SignPayins(msg *payins.Message) (payload []byte, signature string, err error) {
	payload, err = msg.CanonicalJSON()
	if err != nil {
		return nil, "", err
	}
	signature, err = c.sign(payload)
	if err != nil {
		return nil, "", err
	}
	return payload, signature, nil
}

// SendPayins delivers previously signed payload bytes to the payin
// endpoint.
func (c *Client) SendPayins(ctx context.Context, payload []byte, signature string) (*payins.HTTPResponse, error) {
	result, err := c.post(ctx, "/messages/payins", payload, signature)
	if err != nil {
		return nil, err
	}
	return payins.ParseHTTPResponse(result.StatusCode, result.Body), nil
}

// SignAndSendPayins signs and delivers a payin message in one call.
func (c *Client) SignAndSendPayins(ctx context.Context, msg *payins.Message) (*payins.HTTPResponse, error) {
	payload, signature, err := c.SignPayins(msg)
	if err != nil {
		return nil, err
	}
	return c.SendPayins(ctx, payload, signature)
}

func (c *Client) sign(payload []byte) (string, error) {
	if key, ok := c.key.(*rsa.PrivateKey); ok {
		return security.Sign(payload, key, c.cert)
	}
	return security.SignWithSigner(payload, c.key, c.cert)
}

func (c *Client) post(ctx context.Context, path string, payload []byte, signature string) (*transport.Result, error) {
	endpoint := c.baseURL + path
	result, err := c.http.Post(ctx, endpoint, payload, map[string]string{
		APIKeyHeader:       c.apiKey,
		JWSSignatureHeader: signature,
	})
	if err != nil {
		return nil, fmt.Errorf("posting to %s: %w", endpoint, err)
	}
	return result, nil
}
