// Package client ties the library together: it signs payout and payin
// messages, delivers them to the platform API, and verifies incoming
// response callbacks against the sender's certificate whitelist.
//
// A Client is configured once with the API credentials and signing
// material and is safe for concurrent use. Each message kind is posted
// to its own endpoint; the client derives the endpoint from the message
// type, so a payout message can never be delivered to the payin route.
package client
