package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedMessage is returned when a message document is missing
// required fields, has fields of the wrong shape, or is not valid JSON.
var ErrMalformedMessage = errors.New("malformed message")

func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedMessage, fmt.Sprintf(format, args...))
}

// Malformedf wraps ErrMalformedMessage with a formatted detail string.
// It is used by the concrete message packages so every structural defect
// surfaces under the same sentinel.
func Malformedf(format string, args ...any) error {
	return malformedf(format, args...)
}

// EncodeCanonical returns the canonical JSON encoding of v: struct-order
// fields, no insignificant whitespace, no HTML escaping, no trailing
// newline. The output is deterministic for a given value and is the only
// byte form ever signed or transmitted.
func EncodeCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canonical encoding failed: %w", err)
	}

	// json.Encoder.Encode appends a newline; strip it.
	out := buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}

// Document wraps a message body in the {"document": ...} envelope the
// platform uses for every message kind.
type Document[T any] struct {
	Document T `json:"document"`
}

// EncodeDocument canonically encodes body inside the document envelope.
func EncodeDocument[T any](body T) ([]byte, error) {
	return EncodeCanonical(Document[T]{Document: body})
}

// DecodeDocument parses a document envelope into body. A JSON syntax
// error or a missing "document" key fails with ErrMalformedMessage.
// Field order and whitespace of the input do not matter; the caller is
// expected to validate the decoded body afterwards.
func DecodeDocument[T any](data []byte, body *T) error {
	var envelope struct {
		Document *T `json:"document"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return malformedf("invalid JSON: %v", err)
	}
	if envelope.Document == nil {
		return malformedf("missing document")
	}
	*body = *envelope.Document
	return nil
}
