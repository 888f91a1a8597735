// Package config handles configuration loading for the command line
// tool.
//
// Configuration is loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax), so the API key and HSM
// PIN can be injected at runtime instead of living in the file.
//
// # Example Configuration
//
//	api:
//	  baseURL: https://api.shinkansen.finance/v1
//	  key: ${SHINKANSEN_API_KEY}
//
//	identity:
//	  sender:
//	    fin_id: TAMAGOTCHI
//	    fin_id_schema: SHINKANSEN
//
//	signing:
//	  mode: file
//	  file:
//	    certFile: /etc/shinkansen/client.crt
//	    keyFile: /etc/shinkansen/client.key
//	    keyPassword: ${SHINKANSEN_KEY_PASSWORD}
//
//	trust:
//	  certificates:
//	    - /etc/shinkansen/shinkansen-1.crt
//	    - /etc/shinkansen/shinkansen-2.crt
//
// See [Load] for loading configuration from a file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Identity IdentityConfig `yaml:"identity"`
	Signing  SigningConfig  `yaml:"signing"`
	Trust    TrustConfig    `yaml:"trust"`
}

// APIConfig holds the platform API settings.
type APIConfig struct {
	BaseURL string `yaml:"baseURL"`
	Key     string `yaml:"key"`
}

// InstitutionConfig identifies a financial institution.
type InstitutionConfig struct {
	FinID       string `yaml:"fin_id"`
	FinIDSchema string `yaml:"fin_id_schema"`
}

// IdentityConfig holds the message routing identities.
type IdentityConfig struct {
	// Sender is the institution messages originate from.
	Sender InstitutionConfig `yaml:"sender"`
	// Receiver is the counterparty. Defaults to the platform itself.
	Receiver InstitutionConfig `yaml:"receiver"`
}

// SigningConfig holds signing key management settings.
type SigningConfig struct {
	// Mode determines how the signing key is held:
	// - "file": key and certificate loaded from PEM files
	// - "pkcs11": key held in a PKCS#11 token (HSM/smart card)
	Mode string `yaml:"mode"`

	File   FileKeyConfig `yaml:"file"`
	PKCS11 PKCS11Config  `yaml:"pkcs11"`
}

// FileKeyConfig holds file-based key settings.
type FileKeyConfig struct {
	CertFile string `yaml:"certFile"`
	KeyFile  string `yaml:"keyFile"`
	// KeyPassword decrypts an encrypted PEM key. Usually an env var
	// reference like ${SHINKANSEN_KEY_PASSWORD}.
	KeyPassword string `yaml:"keyPassword"`
	// KeyDir plus KeyName may be used instead of explicit file paths:
	// {keyDir}/{keyName}.key and {keyDir}/{keyName}.crt.
	KeyDir  string `yaml:"keyDir"`
	KeyName string `yaml:"keyName"`
}

// PKCS11Config holds PKCS#11 HSM settings.
type PKCS11Config struct {
	// ModulePath is the PKCS#11 library (.so/.dylib/.dll).
	ModulePath string `yaml:"modulePath"`
	SlotID     uint   `yaml:"slotId"`
	SlotLabel  string `yaml:"slotLabel"`
	// PIN for authentication, usually an env var reference.
	PIN      string `yaml:"pin"`
	KeyLabel string `yaml:"keyLabel"`
}

// TrustConfig lists the certificates incoming callbacks may be signed
// with.
type TrustConfig struct {
	Certificates []string `yaml:"certificates"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://api.shinkansen.finance/v1"
	}
	if c.Identity.Sender.FinIDSchema == "" {
		c.Identity.Sender.FinIDSchema = "SHINKANSEN"
	}
	if c.Identity.Receiver.FinID == "" {
		c.Identity.Receiver.FinID = "SHINKANSEN"
	}
	if c.Identity.Receiver.FinIDSchema == "" {
		c.Identity.Receiver.FinIDSchema = "SHINKANSEN"
	}
	if c.Signing.Mode == "" {
		c.Signing.Mode = "file"
	}
	if c.Signing.File.KeyName == "" {
		c.Signing.File.KeyName = "client"
	}
	if c.Signing.PKCS11.KeyLabel == "" {
		c.Signing.PKCS11.KeyLabel = "shinkansen-signing"
	}
}

func (c *Config) validate() error {
	if c.Identity.Sender.FinID == "" {
		return fmt.Errorf("identity.sender.fin_id is required")
	}

	switch c.Signing.Mode {
	case "file":
		if c.Signing.File.CertFile == "" && c.Signing.File.KeyDir == "" {
			return fmt.Errorf("signing.file.certFile or signing.file.keyDir is required when mode is 'file'")
		}
	case "pkcs11":
		if c.Signing.PKCS11.ModulePath == "" {
			return fmt.Errorf("signing.pkcs11.modulePath is required when mode is 'pkcs11'")
		}
	default:
		return fmt.Errorf("signing.mode must be 'file' or 'pkcs11', got '%s'", c.Signing.Mode)
	}

	return nil
}
