//go:build pkcs11

package keystore

import (
	"crypto"
	"crypto/x509"
	"fmt"
	"io"
	"sync"

	"github.com/ThalesGroup/crypto11"
)

// PKCS11Provider implements Provider using a PKCS#11 token.
type PKCS11Provider struct {
	ctx *crypto11.Context

	mu      sync.RWMutex
	signers map[string]*pkcs11Signer
}

// PKCS11Config holds configuration for the PKCS#11 provider.
type PKCS11Config struct {
	// ModulePath is the path to the PKCS#11 library (.so/.dylib/.dll).
	ModulePath string
	// SlotID selects the slot number (optional if SlotLabel is given).
	SlotID *uint
	// SlotLabel selects the token by label (optional if SlotID is given).
	SlotLabel string
	// PIN is the user PIN for authentication.
	PIN string
}

// NewPKCS11Provider opens the token described by cfg.
func NewPKCS11Provider(cfg *PKCS11Config) (*PKCS11Provider, error) {
	config := &crypto11.Config{
		Path: cfg.ModulePath,
		Pin:  cfg.PIN,
	}
	if cfg.SlotID != nil {
		slotID := int(*cfg.SlotID)
		config.SlotNumber = &slotID
	}
	if cfg.SlotLabel != "" {
		config.TokenLabel = cfg.SlotLabel
	}

	ctx, err := crypto11.Configure(config)
	if err != nil {
		return nil, fmt.Errorf("configuring PKCS#11: %w", err)
	}
	return &PKCS11Provider{
		ctx:     ctx,
		signers: make(map[string]*pkcs11Signer),
	}, nil
}

// GetSigner finds the key pair and certificate labeled name on the
// token.
func (p *PKCS11Provider) GetSigner(name string) (Signer, error) {
	p.mu.RLock()
	if signer, ok := p.signers[name]; ok {
		p.mu.RUnlock()
		return signer, nil
	}
	p.mu.RUnlock()

	key, err := p.ctx.FindKeyPair(nil, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("finding key pair: %w", err)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: label %q", ErrKeyNotFound, name)
	}
	cert, err := p.ctx.FindCertificate(nil, []byte(name), nil)
	if err != nil {
		return nil, fmt.Errorf("finding certificate: %w", err)
	}
	if cert == nil {
		return nil, fmt.Errorf("%w: no certificate with label %q", ErrKeyNotFound, name)
	}

	signer := &pkcs11Signer{key: key, cert: cert}
	p.mu.Lock()
	p.signers[name] = signer
	p.mu.Unlock()
	return signer, nil
}

// Close releases PKCS#11 resources.
func (p *PKCS11Provider) Close() error {
	return p.ctx.Close()
}

type pkcs11Signer struct {
	key  crypto11.Signer
	cert *x509.Certificate
}

func (s *pkcs11Signer) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return s.key.Sign(rand, digest, opts)
}

func (s *pkcs11Signer) Public() crypto.PublicKey {
	return s.key.Public()
}

func (s *pkcs11Signer) Certificate() *x509.Certificate {
	return s.cert
}
