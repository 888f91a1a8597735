package security

import (
	"bytes"
	"context"
	"crypto"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/ocsp"
)

// RevocationChecker checks whether a certificate has been revoked.
// Implementations return nil for good certificates,
// ErrCertificateRevoked for revoked ones, and other errors when the
// status could not be determined.
type RevocationChecker interface {
	CheckRevocation(ctx context.Context, cert, issuer *x509.Certificate) error
}

// OCSPConfig configures an OCSPChecker.
type OCSPConfig struct {
	// HTTPClient used for OCSP requests. A default client with Timeout
	// is built when nil.
	HTTPClient *http.Client
	// Timeout per OCSP request.
	Timeout time.Duration
	// CacheTTL bounds how long a fetched status is reused.
	CacheTTL time.Duration
	// Strict fails closed: an undeterminable status is treated as an
	// error instead of being ignored.
	Strict bool
}

// DefaultOCSPConfig returns the configuration used when none is given.
func DefaultOCSPConfig() *OCSPConfig {
	return &OCSPConfig{
		Timeout:  10 * time.Second,
		CacheTTL: time.Hour,
	}
}

// OCSPChecker implements RevocationChecker against the OCSP responders
// advertised in the certificate, with a small in-memory status cache.
type OCSPChecker struct {
	config *OCSPConfig
	client *http.Client

	mu    sync.Mutex
	cache map[string]cachedStatus
}

type cachedStatus struct {
	err     error
	expires time.Time
}

// NewOCSPChecker returns an OCSP revocation checker. A nil config
// selects DefaultOCSPConfig.
func NewOCSPChecker(config *OCSPConfig) *OCSPChecker {
	if config == nil {
		config = DefaultOCSPConfig()
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	return &OCSPChecker{
		config: config,
		client: client,
		cache:  make(map[string]cachedStatus),
	}
}

// CheckRevocation queries the certificate's OCSP responders. When the
// certificate advertises none, or every responder is unreachable, the
// result depends on Strict: lenient mode treats unknown as good.
func (c *OCSPChecker) CheckRevocation(ctx context.Context, cert, issuer *x509.Certificate) error {
	if len(cert.OCSPServer) == 0 {
		if c.config.Strict {
			return fmt.Errorf("%w: certificate has no OCSP responder", ErrCertificateRevoked)
		}
		return nil
	}

	key := string(cert.Raw)
	c.mu.Lock()
	if cached, ok := c.cache[key]; ok && time.Now().Before(cached.expires) {
		c.mu.Unlock()
		return cached.err
	}
	c.mu.Unlock()

	err := c.query(ctx, cert, issuer)
	c.mu.Lock()
	c.cache[key] = cachedStatus{err: err, expires: time.Now().Add(c.config.CacheTTL)}
	c.mu.Unlock()
	return err
}

func (c *OCSPChecker) query(ctx context.Context, cert, issuer *x509.Certificate) error {
	req, err := ocsp.CreateRequest(cert, issuer, &ocsp.RequestOptions{Hash: crypto.SHA256})
	if err != nil {
		return fmt.Errorf("building OCSP request: %w", err)
	}

	var lastErr error
	for _, server := range cert.OCSPServer {
		status, err := c.fetch(ctx, server, req, cert, issuer)
		if err != nil {
			lastErr = err
			continue
		}
		switch status {
		case ocsp.Good:
			return nil
		case ocsp.Revoked:
			return fmt.Errorf("%w: reported by %s", ErrCertificateRevoked, server)
		default:
			lastErr = fmt.Errorf("responder %s reported unknown status", server)
		}
	}
	if c.config.Strict {
		return fmt.Errorf("%w: status undeterminable: %v", ErrCertificateRevoked, lastErr)
	}
	return nil
}

func (c *OCSPChecker) fetch(ctx context.Context, server string, req []byte, cert, issuer *x509.Certificate) (int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, server, bytes.NewReader(req))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/ocsp-request")
	httpReq.Header.Set("Accept", "application/ocsp-response")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("querying %s: %w", server, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("responder %s returned status %d", server, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("reading response from %s: %w", server, err)
	}
	parsed, err := ocsp.ParseResponseForCert(body, cert, issuer)
	if err != nil {
		return 0, fmt.Errorf("parsing response from %s: %w", server, err)
	}
	return parsed.Status, nil
}
