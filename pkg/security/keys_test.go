package security

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pemEncode(t *testing.T, blockType string, der []byte) []byte {
	t.Helper()
	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
}

func TestPrivateKeyFromPEMPKCS1(t *testing.T) {
	key, _ := generateKeyAndCert(t, "keys.example.com")
	data := pemEncode(t, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key))

	parsed, err := PrivateKeyFromPEM(data, nil)
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
}

func TestPrivateKeyFromPEMPKCS8(t *testing.T) {
	key, _ := generateKeyAndCert(t, "keys.example.com")
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	data := pemEncode(t, "PRIVATE KEY", der)

	parsed, err := PrivateKeyFromPEM(data, nil)
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
}

func TestPrivateKeyFromPEMEncrypted(t *testing.T) {
	key, _ := generateKeyAndCert(t, "keys.example.com")
	//nolint:staticcheck // tests the legacy encrypted PEM path
	block, err := x509.EncryptPEMBlock(rand.Reader, "RSA PRIVATE KEY",
		x509.MarshalPKCS1PrivateKey(key), []byte("secret"), x509.PEMCipherAES256)
	require.NoError(t, err)
	data := pem.EncodeToMemory(block)

	parsed, err := PrivateKeyFromPEM(data, []byte("secret"))
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))

	_, err = PrivateKeyFromPEM(data, []byte("wrong"))
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)

	_, err = PrivateKeyFromPEM(data, nil)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)
}

func TestPrivateKeyFromPEMRejectsNonRSA(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(ecKey)
	require.NoError(t, err)

	_, err = PrivateKeyFromPEM(pemEncode(t, "PRIVATE KEY", der), nil)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)
}

func TestPrivateKeyFromPEMGarbage(t *testing.T) {
	_, err := PrivateKeyFromPEM([]byte("not pem at all"), nil)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)

	_, err = PrivateKeyFromPEM(pemEncode(t, "CERTIFICATE REQUEST", []byte{1, 2, 3}), nil)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)
}

func TestCertificateFromPEM(t *testing.T) {
	_, cert := generateKeyAndCert(t, "keys.example.com")
	data := pemEncode(t, "CERTIFICATE", cert.Raw)

	parsed, err := CertificateFromPEM(data)
	require.NoError(t, err)
	assert.Equal(t, cert.Raw, parsed.Raw)
}

func TestCertificatesFromPEMMultiple(t *testing.T) {
	_, certA := generateKeyAndCert(t, "a.example.com")
	_, certB := generateKeyAndCert(t, "b.example.com")
	data := append(pemEncode(t, "CERTIFICATE", certA.Raw), pemEncode(t, "CERTIFICATE", certB.Raw)...)

	certs, err := CertificatesFromPEM(data)
	require.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, certA.Raw, certs[0].Raw)
	assert.Equal(t, certB.Raw, certs[1].Raw)
}

func TestCertificatesFromPEMNone(t *testing.T) {
	key, _ := generateKeyAndCert(t, "keys.example.com")
	data := pemEncode(t, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key))

	_, err := CertificatesFromPEM(data)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)
}

func TestPEMFileLoaders(t *testing.T) {
	key, cert := generateKeyAndCert(t, "keys.example.com")
	dir := t.TempDir()

	keyPath := filepath.Join(dir, "client.key")
	certPath := filepath.Join(dir, "client.crt")
	require.NoError(t, os.WriteFile(keyPath,
		pemEncode(t, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key)), 0o600))
	require.NoError(t, os.WriteFile(certPath,
		pemEncode(t, "CERTIFICATE", cert.Raw), 0o644))

	loadedKey, err := PrivateKeyFromPEMFile(keyPath, nil)
	require.NoError(t, err)
	assert.True(t, key.Equal(loadedKey))

	loadedCert, err := CertificateFromPEMFile(certPath)
	require.NoError(t, err)
	assert.Equal(t, cert.Raw, loadedCert.Raw)

	w, err := WhitelistFromPEMFiles(certPath)
	require.NoError(t, err)
	assert.True(t, w.Contains(cert))

	_, err = PrivateKeyFromPEMFile(filepath.Join(dir, "missing.key"), nil)
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)
}
