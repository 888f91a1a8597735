// Package security implements the cryptographic core of the library:
// detached JWS signing and verification, key and certificate loading,
// certificate whitelists and optional OCSP revocation checking.
//
// # Signing
//
// Messages are signed as JWS with a detached, unencoded payload
// (RFC 7797). The protected header carries the PS256 algorithm, the
// unencoded-payload flags and the signer's certificate in x5c. The
// resulting compact serialization has an empty payload segment:
//
//	protected..signature
//
// PS256 uses randomized salts, so signing the same bytes twice yields
// different signatures. Both verify.
//
// # Trust
//
// Verification does not build CA chains. The embedded certificate is
// trusted only if it is byte-identical to an entry of an explicit
// whitelist. Revocation checking via OCSP can be layered on top with a
// RevocationChecker.
package security
