package security

import "errors"

// Sentinel errors returned by the signing and verification paths. All
// errors produced by this package wrap one of these, so callers can
// classify failures with errors.Is.
var (
	// ErrInvalidKeyMaterial indicates a key or certificate that could
	// not be parsed, decrypted or used.
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrKeyMismatch indicates a private key that does not correspond
	// to the certificate it was paired with.
	ErrKeyMismatch = errors.New("private key does not match certificate")

	// ErrInvalidJWS indicates a signature value that is structurally
	// broken: wrong segment count, undecodable header, missing x5c,
	// unsupported algorithm.
	ErrInvalidJWS = errors.New("invalid JWS")

	// ErrInvalidSignature indicates a well-formed JWS whose
	// cryptographic signature does not verify over the given payload.
	ErrInvalidSignature = errors.New("signature verification failed")

	// ErrCertificateNotWhitelisted indicates a valid signature made
	// with a certificate outside the trusted whitelist.
	ErrCertificateNotWhitelisted = errors.New("certificate not in whitelist")

	// ErrCertificateRevoked indicates a whitelisted certificate whose
	// revocation check failed.
	ErrCertificateRevoked = errors.New("certificate revoked")
)
