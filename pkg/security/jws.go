package security

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AlgPS256 is the only algorithm this library produces. Verification
// accepts algorithms listed in supportedAlgs.
const AlgPS256 = "PS256"

// supportedAlgs maps accepted header algorithms to their verifiers.
// A single entry today; the table exists so new RSA-PSS variants can
// be admitted without touching the verification flow.
var supportedAlgs = map[string]*jwt.SigningMethodRSAPSS{
	AlgPS256: jwt.SigningMethodPS256,
}

// jwsHeader is the protected header of a detached signature.
type jwsHeader struct {
	Alg  string   `json:"alg"`
	B64  *bool    `json:"b64,omitempty"`
	Crit []string `json:"crit,omitempty"`
	X5C  []string `json:"x5c"`
}

// Sign produces a detached JWS over payload, signed with key and
// carrying cert in the protected header. The result is the compact
// serialization with an empty payload segment ("protected..signature").
// Fails with ErrKeyMismatch if key is not the private half of cert.
func Sign(payload []byte, key *rsa.PrivateKey, cert *x509.Certificate) (string, error) {
	if err := checkKeyPair(key.Public(), cert); err != nil {
		return "", err
	}
	protected, input, err := signingInput(payload, cert)
	if err != nil {
		return "", err
	}
	sig, err := jwt.SigningMethodPS256.Sign(input, key)
	if err != nil {
		return "", fmt.Errorf("%w: signing: %v", ErrInvalidKeyMaterial, err)
	}
	return protected + ".." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// SignWithSigner is Sign for keys held behind a crypto.Signer, such as
// HSM-resident keys. The signer must produce RSA-PSS signatures with
// SHA-256 and a salt length equal to the hash length.
func SignWithSigner(payload []byte, signer crypto.Signer, cert *x509.Certificate) (string, error) {
	if err := checkKeyPair(signer.Public(), cert); err != nil {
		return "", err
	}
	protected, input, err := signingInput(payload, cert)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256([]byte(input))
	sig, err := signer.Sign(rand.Reader, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return "", fmt.Errorf("%w: signing: %v", ErrInvalidKeyMaterial, err)
	}
	return protected + ".." + base64.RawURLEncoding.EncodeToString(sig), nil
}

func checkKeyPair(pub crypto.PublicKey, cert *x509.Certificate) error {
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: key is %T, want RSA", ErrInvalidKeyMaterial, pub)
	}
	certPub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: certificate key is %T, want RSA", ErrInvalidKeyMaterial, cert.PublicKey)
	}
	if !rsaPub.Equal(certPub) {
		return ErrKeyMismatch
	}
	return nil
}

// signingInput builds the protected header for cert and the RFC 7797
// signing input for payload. With b64=false the payload contributes
// its raw bytes, not a base64url rendition.
func signingInput(payload []byte, cert *x509.Certificate) (protected, input string, err error) {
	b64 := false
	header := jwsHeader{
		Alg:  AlgPS256,
		B64:  &b64,
		Crit: []string{"b64"},
		X5C:  []string{base64.StdEncoding.EncodeToString(cert.Raw)},
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", "", fmt.Errorf("%w: encoding header: %v", ErrInvalidKeyMaterial, err)
	}
	protected = base64.RawURLEncoding.EncodeToString(headerJSON)
	return protected, protected + "." + string(payload), nil
}

// Verify checks a detached JWS over payload. The certificate embedded
// in the header supplies the public key; it is trusted only if it is
// byte-identical to one of the trusted certificates. Any payload
// segment present in the compact serialization is ignored: the caller's
// payload bytes are authoritative.
//
// On success the embedded leaf certificate is returned so callers can
// run further policy checks against it.
func Verify(signature string, payload []byte, trusted []*x509.Certificate) (*x509.Certificate, error) {
	parts := strings.Split(signature, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrInvalidJWS, len(parts))
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: decoding protected header: %v", ErrInvalidJWS, err)
	}
	var header jwsHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("%w: parsing protected header: %v", ErrInvalidJWS, err)
	}

	method, ok := supportedAlgs[header.Alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidJWS, header.Alg)
	}
	if len(header.X5C) == 0 {
		return nil, fmt.Errorf("%w: no x5c certificate in header", ErrInvalidJWS)
	}
	certDER, err := base64.StdEncoding.DecodeString(header.X5C[0])
	if err != nil {
		return nil, fmt.Errorf("%w: decoding x5c certificate: %v", ErrInvalidJWS, err)
	}
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing x5c certificate: %v", ErrInvalidJWS, err)
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: certificate key is %T, want RSA", ErrInvalidJWS, cert.PublicKey)
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: decoding signature: %v", ErrInvalidJWS, err)
	}

	// b64 defaults to true when absent (RFC 7515 behavior).
	input := parts[0] + "." + base64.RawURLEncoding.EncodeToString(payload)
	if header.B64 != nil && !*header.B64 {
		input = parts[0] + "." + string(payload)
	}
	if err := method.Verify(input, sig, pub); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if !NewWhitelist(trusted...).Contains(cert) {
		return nil, fmt.Errorf("%w: %s", ErrCertificateNotWhitelisted, cert.Subject)
	}
	return cert, nil
}
