package transform

import "github.com/toyz/rsbind/pkg/payload"

type voidTransform struct{}

// Void is the transform for operations without a result. Encoding always
// yields an empty payload and decoding ignores whatever data arrived.
var Void voidTransform

func (voidTransform) Decode(payload.Payload) (struct{}, error) {
	return struct{}{}, nil
}

func (voidTransform) Encode(struct{}) (payload.Payload, error) {
	return payload.Empty(), nil
}
