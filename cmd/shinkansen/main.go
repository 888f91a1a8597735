// Command shinkansen signs, verifies and sends messages from the
// command line.
//
// Usage:
//
//	shinkansen sign -key client.key -cert client.crt -payload message.json [-output message.jws]
//	shinkansen verify -trusted certs.pem -payload message.json -jws message.jws
//	shinkansen send -config config.yaml -type payouts -payload message.json
//
// The sign and verify subcommands operate on raw payload bytes, so they
// can be used for any message kind. The send subcommand signs the
// payload with the configured key and posts it to the platform API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/shinkansenfinance/shinkansen-go/internal/config"
	"github.com/shinkansenfinance/shinkansen-go/internal/keystore"
	"github.com/shinkansenfinance/shinkansen-go/pkg/client"
	"github.com/shinkansenfinance/shinkansen-go/pkg/security"
	"github.com/shinkansenfinance/shinkansen-go/pkg/transport"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "sign":
		err = runSign(os.Args[2:])
	case "verify":
		err = runVerify(os.Args[2:])
	case "send":
		err = runSend(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error(os.Args[1]+" failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: shinkansen <sign|verify|send> [flags]")
	fmt.Fprintln(os.Stderr, "run 'shinkansen <command> -h' for command flags")
}

func runSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	keyFile := fs.String("key", "", "PEM file with the RSA private key")
	certFile := fs.String("cert", "", "PEM file with the signing certificate")
	payloadFile := fs.String("payload", "", "file with the payload bytes to sign")
	output := fs.String("output", "", "write the signature here instead of stdout")
	askPassword := fs.Bool("password", false, "prompt for the key password")
	fs.Parse(args)

	if *keyFile == "" || *certFile == "" || *payloadFile == "" {
		return errors.New("-key, -cert and -payload are required")
	}

	var password []byte
	if *askPassword {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}

	key, err := security.PrivateKeyFromPEMFile(*keyFile, password)
	if err != nil {
		return err
	}
	cert, err := security.CertificateFromPEMFile(*certFile)
	if err != nil {
		return err
	}
	payload, err := os.ReadFile(*payloadFile)
	if err != nil {
		return err
	}

	signature, err := security.Sign(payload, key, cert)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(signature), 0o644)
	}
	fmt.Println(signature)
	return nil
}

func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	trustedFile := fs.String("trusted", "", "PEM file with the trusted certificates")
	payloadFile := fs.String("payload", "", "file with the payload bytes that were signed")
	jwsFile := fs.String("jws", "", "file with the detached signature")
	fs.Parse(args)

	if *trustedFile == "" || *payloadFile == "" || *jwsFile == "" {
		return errors.New("-trusted, -payload and -jws are required")
	}

	trusted, err := security.CertificatesFromPEMFiles(*trustedFile)
	if err != nil {
		return err
	}
	payload, err := os.ReadFile(*payloadFile)
	if err != nil {
		return err
	}
	signature, err := os.ReadFile(*jwsFile)
	if err != nil {
		return err
	}

	cert, err := security.Verify(string(signature), payload, trusted)
	if err != nil {
		return err
	}
	fmt.Printf("signature valid, signed by %s\n", cert.Subject)
	return nil
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "configuration file")
	msgType := fs.String("type", "payouts", "message kind: payouts or payins")
	payloadFile := fs.String("payload", "", "file with the canonical message document")
	fs.Parse(args)

	if *payloadFile == "" {
		return errors.New("-payload is required")
	}
	if *msgType != "payouts" && *msgType != "payins" {
		return fmt.Errorf("unknown message type %q", *msgType)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	signer, err := keystore.SignerFromConfig(&cfg.Signing)
	if err != nil {
		return err
	}
	payload, err := os.ReadFile(*payloadFile)
	if err != nil {
		return err
	}

	signature, err := security.SignWithSigner(payload, signer, signer.Certificate())
	if err != nil {
		return err
	}

	httpClient := transport.NewClient(nil)
	endpoint := cfg.API.BaseURL + "/messages/" + *msgType
	result, err := httpClient.Post(context.Background(), endpoint, payload, map[string]string{
		client.APIKeyHeader:       cfg.API.Key,
		client.JWSSignatureHeader: signature,
	})
	if err != nil {
		return err
	}

	fmt.Printf("HTTP %d\n%s\n", result.StatusCode, result.Body)
	return nil
}

func promptPassword() ([]byte, error) {
	fmt.Fprint(os.Stderr, "key password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}
