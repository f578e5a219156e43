package transform

import "github.com/toyz/rsbind/pkg/payload"

// EnumDecode reads a 32-bit signed integer and reinterprets it as E.
func EnumDecode[E ~int32](p payload.Payload) (E, error) {
	v, err := Int32.Decode(p)
	if err != nil {
		return 0, err
	}
	return E(v), nil
}

// EnumEncode writes the underlying integer value of v.
func EnumEncode[E ~int32](v E) (payload.Payload, error) {
	return Int32.Encode(int32(v))
}
