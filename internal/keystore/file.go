package keystore

import (
	"crypto"
	"crypto/x509"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/shinkansenfinance/shinkansen-go/pkg/security"
)

// FileProvider implements Provider using PEM files on disk.
//
// Key files are expected at {keyDir}/{name}.key and certificates at
// {keyDir}/{name}.crt. Encrypted keys are decrypted with the configured
// password.
type FileProvider struct {
	keyDir   string
	password []byte

	mu      sync.RWMutex
	signers map[string]*fileSigner
}

// NewFileProvider creates a file-based provider rooted at keyDir. Pass
// a nil password for unencrypted keys.
func NewFileProvider(keyDir string, password []byte) (*FileProvider, error) {
	info, err := os.Stat(keyDir)
	if err != nil {
		return nil, fmt.Errorf("checking key directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("key directory is not a directory: %s", keyDir)
	}
	return &FileProvider{
		keyDir:   keyDir,
		password: password,
		signers:  make(map[string]*fileSigner),
	}, nil
}

// GetSigner loads (or returns the cached) signer for the named key.
func (p *FileProvider) GetSigner(name string) (Signer, error) {
	p.mu.RLock()
	if signer, ok := p.signers[name]; ok {
		p.mu.RUnlock()
		return signer, nil
	}
	p.mu.RUnlock()

	signer, err := p.load(name)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.signers[name] = signer
	p.mu.Unlock()
	return signer, nil
}

// Close is a no-op for file-based keys.
func (p *FileProvider) Close() error { return nil }

func (p *FileProvider) load(name string) (*fileSigner, error) {
	keyPath := filepath.Join(p.keyDir, name+".key")
	certPath := filepath.Join(p.keyDir, name+".crt")

	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, keyPath)
	}

	key, err := security.PrivateKeyFromPEMFile(keyPath, p.password)
	if err != nil {
		return nil, fmt.Errorf("loading key %s: %w", keyPath, err)
	}
	cert, err := security.CertificateFromPEMFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("loading certificate %s: %w", certPath, err)
	}
	return &fileSigner{key: key, cert: cert}, nil
}

// NewFileSigner builds a Signer directly from explicit key and
// certificate file paths, bypassing the directory layout.
func NewFileSigner(keyFile, certFile string, password []byte) (Signer, error) {
	key, err := security.PrivateKeyFromPEMFile(keyFile, password)
	if err != nil {
		return nil, err
	}
	cert, err := security.CertificateFromPEMFile(certFile)
	if err != nil {
		return nil, err
	}
	return &fileSigner{key: key, cert: cert}, nil
}

type fileSigner struct {
	key  crypto.Signer
	cert *x509.Certificate
}

func (s *fileSigner) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return s.key.Sign(rand, digest, opts)
}

func (s *fileSigner) Public() crypto.PublicKey {
	return s.key.Public()
}

func (s *fileSigner) Certificate() *x509.Certificate {
	return s.cert
}
