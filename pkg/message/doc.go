// Package message defines the model shared by all Shinkansen message
// kinds: the parties that send and receive them, the header every
// message document carries, and the canonical JSON encoding used both
// on the wire and as the JWS signing payload.
//
// The canonical encoding is the load-bearing piece. The detached JWS
// signature covers the exact bytes produced by EncodeCanonical, so two
// structurally equal messages must always serialize to byte-identical
// output. Field order is fixed by struct definition, amounts travel as
// decimal strings, and timestamps use RFC 3339 UTC.
package message
