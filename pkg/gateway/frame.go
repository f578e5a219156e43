package gateway

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// FrameType identifies what a frame carries.
type FrameType byte

const (
	// FrameNext carries one payload.
	FrameNext FrameType = 0
	// FrameError terminates the stream; its data is the error message.
	FrameError FrameType = 1
	// FrameComplete terminates the stream successfully.
	FrameComplete FrameType = 2
)

func (t FrameType) String() string {
	switch t {
	case FrameNext:
		return "next"
	case FrameError:
		return "error"
	case FrameComplete:
		return "complete"
	default:
		return fmt.Sprintf("frame(%d)", byte(t))
	}
}

// MaxFrameSize bounds the data of a single frame.
const MaxFrameSize = 16 << 20

const headerSize = 5

// ErrFrameTooLarge is returned for frames above MaxFrameSize.
var ErrFrameTooLarge = errors.New("gateway: frame too large")

// Frame is one unit on the wire: a type byte, a big-endian uint32 length and
// the data.
type Frame struct {
	Type FrameType
	Data []byte
}

// WriteFrame writes f to w.
func WriteFrame(w io.Writer, f Frame) error {
	if len(f.Data) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var header [headerSize]byte
	header[0] = byte(f.Type)
	binary.BigEndian.PutUint32(header[1:], uint32(len(f.Data)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if len(f.Data) == 0 {
		return nil
	}
	_, err := w.Write(f.Data)
	return err
}

// ReadFrame reads the next frame from r. It returns io.EOF only when r ends
// cleanly between frames.
func ReadFrame(r io.Reader) (Frame, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, fmt.Errorf("gateway: truncated frame header: %w", err)
		}
		return Frame{}, err
	}

	f := Frame{Type: FrameType(header[0])}
	if f.Type > FrameComplete {
		return Frame{}, fmt.Errorf("gateway: unknown frame type %d", header[0])
	}
	size := binary.BigEndian.Uint32(header[1:])
	if size > MaxFrameSize {
		return Frame{}, ErrFrameTooLarge
	}
	if size > 0 {
		f.Data = make([]byte, size)
		if _, err := io.ReadFull(r, f.Data); err != nil {
			return Frame{}, fmt.Errorf("gateway: truncated frame data: %w", err)
		}
	}
	return f, nil
}
