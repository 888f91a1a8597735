package security

import (
	"bytes"
	"crypto/x509"
	"fmt"
)

// Whitelist is an explicit set of trusted certificates. Membership is
// decided by DER byte equality, never by chain building: a certificate
// signed by a trusted CA is still untrusted unless it is itself listed.
type Whitelist struct {
	certs []*x509.Certificate
}

// NewWhitelist returns a whitelist over the given certificates.
func NewWhitelist(certs ...*x509.Certificate) *Whitelist {
	return &Whitelist{certs: certs}
}

// WhitelistFromPEMFiles loads certificates from one or more PEM files
// into a whitelist.
func WhitelistFromPEMFiles(paths ...string) (*Whitelist, error) {
	certs, err := CertificatesFromPEMFiles(paths...)
	if err != nil {
		return nil, err
	}
	return NewWhitelist(certs...), nil
}

// Add appends a certificate to the whitelist.
func (w *Whitelist) Add(cert *x509.Certificate) {
	w.certs = append(w.certs, cert)
}

// Contains reports whether cert is byte-identical to a listed
// certificate.
func (w *Whitelist) Contains(cert *x509.Certificate) bool {
	for _, trusted := range w.certs {
		if bytes.Equal(trusted.Raw, cert.Raw) {
			return true
		}
	}
	return false
}

// Certificates returns the listed certificates.
func (w *Whitelist) Certificates() []*x509.Certificate {
	return w.certs
}

// Validate returns nil if cert is listed and
// ErrCertificateNotWhitelisted otherwise.
func (w *Whitelist) Validate(cert *x509.Certificate) error {
	if !w.Contains(cert) {
		return fmt.Errorf("%w: %s", ErrCertificateNotWhitelisted, cert.Subject)
	}
	return nil
}
