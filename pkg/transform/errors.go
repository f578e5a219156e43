package transform

import (
	"errors"
	"fmt"
)

// DecodeError reports a payload that could not be decoded into the expected
// shape. Generated wrappers never let it escape as a panic; it travels back to
// the caller as an error value or a terminating stream signal.
type DecodeError struct {
	Codec  string // codec that rejected the payload, e.g. "int32" or "cbor"
	Reason string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.Codec, e.Reason, e.Cause)
	}
	return fmt.Sprintf("decode %s: %s", e.Codec, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// ErrOutOfRange is wrapped by an EncodeError for values the wire format
// cannot represent.
var ErrOutOfRange = errors.New("transform: value out of range")

// EncodeError reports a value that a codec refused to encode.
type EncodeError struct {
	Codec string
	Cause error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Codec, e.Cause)
}

func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// IsDecodeError reports whether err, or anything it wraps, is a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func lengthError(codec string, want, got int) *DecodeError {
	return &DecodeError{
		Codec:  codec,
		Reason: fmt.Sprintf("expected %d bytes, got %d", want, got),
	}
}
