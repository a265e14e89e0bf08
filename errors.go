package schemawire

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSubject  = errors.New("schemawire: subject is required")
	ErrMissingResolver = errors.New("schemawire: resolver is required")
	ErrMissingCodec    = errors.New("schemawire: codec is required")
	ErrPayloadTooLarge = errors.New("schemawire: payload too large")
	ErrSchemaRejected  = errors.New("schemawire: writer schema rejected")
)

// EnvelopeError wraps any failure of Serialize or Deserialize with the
// operation and subject it happened on. Use errors.Is against the wire,
// envelope and schemawire sentinels to classify it.
type EnvelopeError struct {
	Op      string // "resolve", "encode", "frame", "parse", "accept", "decode"
	Subject string
	Err     error
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("schemawire: %s %q: %v", e.Op, e.Subject, e.Err)
}

func (e *EnvelopeError) Unwrap() error { return e.Err }
