// Package keystore abstracts where the signing key lives.
//
// Two backends implement the same interface:
//
//   - File-based: key and certificate loaded from PEM files. Simple and
//     fine for most integrations.
//   - PKCS#11: key held in an HSM or smart card, never leaving the
//     token. Compiled in only with the pkcs11 build tag.
//
// Callers obtain a Signer and never learn which backend produced it.
package keystore

import (
	"crypto"
	"crypto/x509"
	"errors"
	"io"
)

// Common errors.
var (
	ErrKeyNotFound = errors.New("signing key not found")
)

// Signer holds a private key and its certificate, ready to sign
// messages. Implementations must be safe for concurrent use.
type Signer interface {
	// Sign signs digest with the underlying private key.
	Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error)

	// Public returns the public half of the key.
	Public() crypto.PublicKey

	// Certificate returns the X.509 certificate paired with the key.
	Certificate() *x509.Certificate
}

// Provider opens signers by name and owns any backend resources.
type Provider interface {
	// GetSigner returns the signer for the named key.
	GetSigner(name string) (Signer, error)

	// Close releases backend resources.
	Close() error
}
