// Package transport implements the HTTPS client used to deliver signed
// messages to the platform API.
//
// The client is deliberately dumb about status codes: any HTTP response
// at all, including 4xx and 5xx, is returned as a Result for the caller
// to interpret. Only failures to obtain a response at all (DNS, TCP,
// TLS, timeouts) are errors, wrapping ErrTransport.
package transport
