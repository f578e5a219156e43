// Package payload defines the opaque binary message exchanged with the
// invocation runtime. A payload is a data section plus optional metadata;
// generated bindings only ever look at the data section.
package payload

// Payload is a single binary message.
type Payload interface {
	// Data returns the message body.
	Data() []byte

	// Metadata returns transport metadata, or nil when none was attached.
	Metadata() []byte
}

type rawPayload struct {
	data     []byte
	metadata []byte
}

func (p *rawPayload) Data() []byte     { return p.data }
func (p *rawPayload) Metadata() []byte { return p.metadata }

// New creates a payload from data and optional metadata.
func New(data []byte, metadata ...[]byte) Payload {
	p := &rawPayload{data: data}
	if len(metadata) > 0 {
		p.metadata = metadata[0]
	}
	return p
}

// Empty returns a payload with no data. It is used for operations without
// parameters and for void results.
func Empty() Payload {
	return &rawPayload{data: []byte{}}
}
