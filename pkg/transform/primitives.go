package transform

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/toyz/rsbind/pkg/payload"
)

// Transform converts between a Go value and a payload using one fixed binary
// encoding. The zero Transform is not usable; use the package-level values.
type Transform[T any] struct {
	name   string
	decode func([]byte) (T, error)
	encode func(T) ([]byte, error)
}

// Name returns the primitive name the transform is registered under.
func (t Transform[T]) Name() string {
	return t.name
}

// Decode reads a value from the payload data.
func (t Transform[T]) Decode(p payload.Payload) (T, error) {
	if p == nil {
		var zero T
		return zero, &DecodeError{Codec: t.name, Reason: "nil payload"}
	}
	return t.decode(p.Data())
}

// Encode writes v into a new payload.
func (t Transform[T]) Encode(v T) (payload.Payload, error) {
	b, err := t.encode(v)
	if err != nil {
		return nil, err
	}
	return payload.New(b), nil
}

func fixed[T any](name string, size int, read func([]byte) T, write func([]byte, T)) Transform[T] {
	return Transform[T]{
		name: name,
		decode: func(b []byte) (T, error) {
			if len(b) != size {
				var zero T
				return zero, lengthError(name, size, len(b))
			}
			return read(b), nil
		},
		encode: func(v T) ([]byte, error) {
			b := make([]byte, size)
			write(b, v)
			return b, nil
		},
	}
}

var be = binary.BigEndian

var (
	// String carries UTF-8 text as raw bytes.
	String = Transform[string]{
		name: "string",
		decode: func(b []byte) (string, error) {
			if !utf8.Valid(b) {
				return "", &DecodeError{Codec: "string", Reason: "invalid UTF-8"}
			}
			return string(b), nil
		},
		encode: func(v string) ([]byte, error) { return []byte(v), nil },
	}

	// Bytes passes the payload data through untouched.
	Bytes = Transform[[]byte]{
		name: "bytes",
		decode: func(b []byte) ([]byte, error) {
			out := make([]byte, len(b))
			copy(out, b)
			return out, nil
		},
		encode: func(v []byte) ([]byte, error) { return v, nil },
	}

	Bool = Transform[bool]{
		name: "bool",
		decode: func(b []byte) (bool, error) {
			if len(b) != 1 {
				return false, lengthError("bool", 1, len(b))
			}
			switch b[0] {
			case 0:
				return false, nil
			case 1:
				return true, nil
			}
			return false, &DecodeError{Codec: "bool", Reason: "byte is neither 0 nor 1"}
		},
		encode: func(v bool) ([]byte, error) {
			if v {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		},
	}

	Int8 = fixed("i8", 1,
		func(b []byte) int8 { return int8(b[0]) },
		func(b []byte, v int8) { b[0] = byte(v) })
	Int16 = fixed("i16", 2,
		func(b []byte) int16 { return int16(be.Uint16(b)) },
		func(b []byte, v int16) { be.PutUint16(b, uint16(v)) })
	Int32 = fixed("i32", 4,
		func(b []byte) int32 { return int32(be.Uint32(b)) },
		func(b []byte, v int32) { be.PutUint32(b, uint32(v)) })
	Int64 = fixed("i64", 8,
		func(b []byte) int64 { return int64(be.Uint64(b)) },
		func(b []byte, v int64) { be.PutUint64(b, uint64(v)) })

	Uint8 = fixed("u8", 1,
		func(b []byte) uint8 { return b[0] },
		func(b []byte, v uint8) { b[0] = v })
	Uint16 = fixed("u16", 2, be.Uint16, be.PutUint16)
	Uint32 = fixed("u32", 4, be.Uint32, be.PutUint32)
	Uint64 = fixed("u64", 8, be.Uint64, be.PutUint64)

	Float32 = fixed("f32", 4,
		func(b []byte) float32 { return math.Float32frombits(be.Uint32(b)) },
		func(b []byte, v float32) { be.PutUint32(b, math.Float32bits(v)) })
	Float64 = fixed("f64", 8,
		func(b []byte) float64 { return math.Float64frombits(be.Uint64(b)) },
		func(b []byte, v float64) { be.PutUint64(b, math.Float64bits(v)) })

	// DateTime is nanoseconds since the Unix epoch, decoded in UTC. Only
	// instants between MinDateTime and MaxDateTime can be encoded.
	DateTime = Transform[time.Time]{
		name: "datetime",
		decode: func(b []byte) (time.Time, error) {
			if len(b) != 8 {
				return time.Time{}, lengthError("datetime", 8, len(b))
			}
			return time.Unix(0, int64(be.Uint64(b))).UTC(), nil
		},
		encode: func(v time.Time) ([]byte, error) {
			if v.Before(MinDateTime) || v.After(MaxDateTime) {
				return nil, &EncodeError{
					Codec: "datetime",
					Cause: fmt.Errorf("%w: %s", ErrOutOfRange, v.UTC().Format(time.RFC3339)),
				}
			}
			b := make([]byte, 8)
			be.PutUint64(b, uint64(v.UnixNano()))
			return b, nil
		},
	}
)

// Range of DateTime, the instants whose nanoseconds since the epoch fit in
// an int64 (years 1677 to 2262).
var (
	MinDateTime = time.Unix(0, math.MinInt64).UTC()
	MaxDateTime = time.Unix(0, math.MaxInt64).UTC()
)
