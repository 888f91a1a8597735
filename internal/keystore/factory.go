package keystore

import (
	"fmt"

	"github.com/shinkansenfinance/shinkansen-go/internal/config"
)

// NewProvider creates a Provider from the signing configuration.
func NewProvider(cfg *config.SigningConfig) (Provider, error) {
	switch cfg.Mode {
	case "pkcs11":
		p11cfg := &PKCS11Config{
			ModulePath: cfg.PKCS11.ModulePath,
			SlotLabel:  cfg.PKCS11.SlotLabel,
			PIN:        cfg.PKCS11.PIN,
		}
		if cfg.PKCS11.SlotID > 0 {
			slotID := cfg.PKCS11.SlotID
			p11cfg.SlotID = &slotID
		}
		return NewPKCS11Provider(p11cfg)
	case "file":
		keyDir := cfg.File.KeyDir
		if keyDir == "" {
			keyDir = "."
		}
		var password []byte
		if cfg.File.KeyPassword != "" {
			password = []byte(cfg.File.KeyPassword)
		}
		return NewFileProvider(keyDir, password)
	default:
		return nil, fmt.Errorf("unknown signing mode: %s", cfg.Mode)
	}
}

// SignerFromConfig resolves the configured signer, handling both the
// directory layout and explicit file paths.
func SignerFromConfig(cfg *config.SigningConfig) (Signer, error) {
	if cfg.Mode == "file" && cfg.File.CertFile != "" {
		var password []byte
		if cfg.File.KeyPassword != "" {
			password = []byte(cfg.File.KeyPassword)
		}
		return NewFileSigner(cfg.File.KeyFile, cfg.File.CertFile, password)
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	name := cfg.File.KeyName
	if cfg.Mode == "pkcs11" {
		name = cfg.PKCS11.KeyLabel
	}
	return provider.GetSigner(name)
}
