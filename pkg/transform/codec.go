package transform

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/toyz/rsbind/pkg/payload"
)

// Codec marshals composite values with a self-describing binary encoding.
type Codec interface {
	// Name returns the name of the codec, used in error messages.
	Name() string
	Marshal(any) ([]byte, error)
	Unmarshal([]byte, any) error
}

// Structured is the codec used for objects and synthesized argument
// containers. It encodes CBOR with deterministic map ordering so identical
// values always produce identical bytes.
var Structured Codec = newCBORCodec()

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() *cborCodec {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dec, err := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return &cborCodec{enc: enc, dec: dec}
}

func (c *cborCodec) Name() string { return "cbor" }

func (c *cborCodec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c *cborCodec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}

// CodecDecode decodes the payload into a T using the structured codec.
func CodecDecode[T any](p payload.Payload) (T, error) {
	var v T
	if p == nil {
		return v, &DecodeError{Codec: Structured.Name(), Reason: "nil payload"}
	}
	if err := Structured.Unmarshal(p.Data(), &v); err != nil {
		return v, &DecodeError{Codec: Structured.Name(), Reason: "malformed payload", Cause: err}
	}
	return v, nil
}

// CodecEncode encodes v with the structured codec.
func CodecEncode[T any](v T) (payload.Payload, error) {
	data, err := Structured.Marshal(v)
	if err != nil {
		return nil, &EncodeError{Codec: Structured.Name(), Cause: err}
	}
	return payload.New(data), nil
}
