/*
Package shinkansen is a Go client library for the Shinkansen payment
platform API.

# Overview

shinkansen-go lets financial institutions construct payout (and payin)
messages, sign them with a detached JWS signature, submit them to the
Shinkansen API, and verify the asynchronous status callbacks Shinkansen
sends back. All messages are JSON documents signed with PS256 (RSA-PSS
with SHA-256) over their canonical byte form, with the signing
certificate embedded in the JWS protected header.

# Package Structure

The library is organized into the following packages:

	github.com/shinkansenfinance/shinkansen-go/pkg/client    - High-level API client and callback verifier
	github.com/shinkansenfinance/shinkansen-go/pkg/message   - Shared message model and canonical JSON encoding
	github.com/shinkansenfinance/shinkansen-go/pkg/payouts   - Payout messages and their synchronous API results
	github.com/shinkansenfinance/shinkansen-go/pkg/payins    - Payin messages
	github.com/shinkansenfinance/shinkansen-go/pkg/responses - Asynchronous transaction response messages
	github.com/shinkansenfinance/shinkansen-go/pkg/security  - PEM loading, detached JWS signing/verification, certificate trust
	github.com/shinkansenfinance/shinkansen-go/pkg/transport - HTTPS transport with TLS 1.2/1.3

# Quick Start

To send a payout message:

	import (
	    "github.com/shinkansenfinance/shinkansen-go/pkg/client"
	    "github.com/shinkansenfinance/shinkansen-go/pkg/message"
	    "github.com/shinkansenfinance/shinkansen-go/pkg/payouts"
	    "github.com/shinkansenfinance/shinkansen-go/pkg/security"
	)

	key, _ := security.PrivateKeyFromPEMFile("signing.key", nil)
	cert, _ := security.CertificateFromPEMFile("signing.crt")

	msg, _ := payouts.NewMessage(
	    payouts.WithSender(message.NewFinancialInstitution("MY-COMPANY")),
	    payouts.WithReceiver(message.Shinkansen),
	    payouts.WithTransaction(tx),
	).Build()

	c := client.New(apiKey, key, cert)
	result, err := c.SignAndSendPayouts(ctx, msg)

To verify an inbound callback:

	v := client.NewCallbackVerifier(trustedCerts, message.Shinkansen,
	    message.NewFinancialInstitution("MY-COMPANY"))
	rm, err := v.VerifyResponseMessage(ctx, body, r.Header.Get(client.JWSSignatureHeader))

# Security Model

Signatures use the RFC 7797 unencoded detached payload form: the JSON
document travels as the HTTP body and the compact JWS string
("protected..signature") travels in the Shinkansen-JWS-Signature header.
Inbound signers are trusted by membership in an operator-curated
certificate whitelist, not by CA chain validation.
*/
package shinkansen
