package client

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shinkansenfinance/shinkansen-go/pkg/message"
	"github.com/shinkansenfinance/shinkansen-go/pkg/responses"
	"github.com/shinkansenfinance/shinkansen-go/pkg/security"
)

// Routing errors returned when a cryptographically valid callback names
// the wrong parties.
var (
	// ErrUnexpectedSender indicates a message whose header sender is
	// not the institution the verifier expects.
	ErrUnexpectedSender = errors.New("unexpected message sender")

	// ErrUnexpectedReceiver indicates a message addressed to an
	// institution other than the verifier's own identity.
	ErrUnexpectedReceiver = errors.New("unexpected message receiver")
)

// CallbackVerifier verifies incoming response callbacks: signature over
// the exact body bytes, certificate whitelist membership, optional
// revocation, and sender/receiver routing checks.
type CallbackVerifier struct {
	trusted        *security.Whitelist
	expectedSender message.FinancialInstitution
	receiver       message.FinancialInstitution
	revocation     security.RevocationChecker
	issuer         *x509.Certificate
	logger         *slog.Logger
}

// VerifierOption configures a CallbackVerifier.
type VerifierOption func(*CallbackVerifier)

// WithRevocationChecker enables a revocation check on the signing
// certificate after the whitelist check passes. issuer is the CA
// certificate that issued the sender's certificates, needed to build
// OCSP requests; pass nil for self-signed certificates.
func WithRevocationChecker(checker security.RevocationChecker, issuer *x509.Certificate) VerifierOption {
	return func(v *CallbackVerifier) {
		v.revocation = checker
		v.issuer = issuer
	}
}

// WithVerifierLogger sets the structured logger. Defaults to
// slog.Default.
func WithVerifierLogger(logger *slog.Logger) VerifierOption {
	return func(v *CallbackVerifier) { v.logger = logger }
}

// NewCallbackVerifier creates a verifier for callbacks sent by
// expectedSender (normally message.Shinkansen) and addressed to
// receiver (the caller's own institution). trusted holds the
// certificates the sender signs with.
func NewCallbackVerifier(trusted []*x509.Certificate, expectedSender, receiver message.FinancialInstitution, opts ...VerifierOption) *CallbackVerifier {
	v := &CallbackVerifier{
		trusted:        security.NewWhitelist(trusted...),
		expectedSender: expectedSender,
		receiver:       receiver,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyResponseMessage checks the detached signature over the raw
// callback body, then parses it as a response message and enforces the
// routing policy. body must be the exact bytes received, untouched by
// any re-serialization.
func (v *CallbackVerifier) VerifyResponseMessage(ctx context.Context, body []byte, signature string) (*responses.Message, error) {
	cert, err := security.Verify(signature, body, v.trusted.Certificates())
	if err != nil {
		return nil, err
	}
	if v.revocation != nil {
		issuer := v.issuer
		if issuer == nil {
			issuer = cert
		}
		if err := v.revocation.CheckRevocation(ctx, cert, issuer); err != nil {
			return nil, err
		}
	}

	msg, err := responses.FromJSON(body)
	if err != nil {
		return nil, err
	}
	if msg.Header.Sender != v.expectedSender {
		return nil, fmt.Errorf("%w: got %s/%s", ErrUnexpectedSender,
			msg.Header.Sender.FinIDSchema, msg.Header.Sender.FinID)
	}
	if msg.Header.Receiver != v.receiver {
		return nil, fmt.Errorf("%w: got %s/%s", ErrUnexpectedReceiver,
			msg.Header.Receiver.FinIDSchema, msg.Header.Receiver.FinID)
	}

	v.logger.Debug("verified response message",
		"message_id", msg.Header.MessageID,
		"responses", len(msg.Responses),
		"certificate", cert.Subject.String())
	return msg, nil
}
