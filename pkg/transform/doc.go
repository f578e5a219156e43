// Package transform holds the codecs generated bindings use to move values
// in and out of payloads.
//
// Scalars use fixed binary encodings: integers and floats are big-endian and
// exactly as wide as their type, booleans are one byte, strings are raw UTF-8
// and datetimes are Unix nanoseconds. Enums travel as their int32 value.
// Objects and synthesized argument containers use the Structured codec (CBOR).
package transform
