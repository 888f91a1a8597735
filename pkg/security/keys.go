package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// PrivateKeyFromPEM parses an RSA private key from PEM data. PKCS#1
// ("RSA PRIVATE KEY") and PKCS#8 ("PRIVATE KEY") blocks are accepted.
// If password is non-nil the block may be an encrypted traditional
// OpenSSL PEM block and will be decrypted with it.
func PrivateKeyFromPEM(data, password []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKeyMaterial)
	}

	der := block.Bytes
	//nolint:staticcheck // legacy encrypted PEM keys are still issued in the wild
	if x509.IsEncryptedPEMBlock(block) {
		if password == nil {
			return nil, fmt.Errorf("%w: key is encrypted and no password given", ErrInvalidKeyMaterial)
		}
		decrypted, err := x509.DecryptPEMBlock(block, password) //nolint:staticcheck
		if err != nil {
			return nil, fmt.Errorf("%w: decrypting key: %v", ErrInvalidKeyMaterial, err)
		}
		der = decrypted
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing PKCS#1 key: %v", ErrInvalidKeyMaterial, err)
		}
		return key, nil
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing PKCS#8 key: %v", ErrInvalidKeyMaterial, err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: key is %T, want RSA", ErrInvalidKeyMaterial, parsed)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block type %q", ErrInvalidKeyMaterial, block.Type)
	}
}

// PrivateKeyFromPEMFile reads and parses an RSA private key from a PEM
// file. Pass a nil password for unencrypted keys.
func PrivateKeyFromPEMFile(path string, password []byte) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidKeyMaterial, path, err)
	}
	return PrivateKeyFromPEM(data, password)
}

// CertificateFromPEM parses the first certificate found in PEM data.
func CertificateFromPEM(data []byte) (*x509.Certificate, error) {
	certs, err := CertificatesFromPEM(data)
	if err != nil {
		return nil, err
	}
	return certs[0], nil
}

// CertificatesFromPEM parses every CERTIFICATE block in PEM data, in
// order. Useful for whitelist files holding several certificates.
func CertificatesFromPEM(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing certificate: %v", ErrInvalidKeyMaterial, err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: no certificate found in PEM data", ErrInvalidKeyMaterial)
	}
	return certs, nil
}

// CertificateFromPEMFile reads and parses the first certificate from a
// PEM file.
func CertificateFromPEMFile(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidKeyMaterial, path, err)
	}
	return CertificateFromPEM(data)
}

// CertificatesFromPEMFiles reads one or more PEM files and returns all
// certificates found across them.
func CertificatesFromPEMFiles(paths ...string) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidKeyMaterial, path, err)
		}
		parsed, err := CertificatesFromPEM(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		certs = append(certs, parsed...)
	}
	return certs, nil
}
