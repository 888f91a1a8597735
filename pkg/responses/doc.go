// Package responses implements the response messages the platform
// delivers asynchronously via callbacks, reporting the final status of
// previously submitted transactions.
//
// Response messages arrive as signed HTTP callbacks; this package only
// parses and builds them. Signature verification and routing checks
// live in the client package.
package responses
