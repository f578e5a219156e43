package gateway

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrames_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, Frame{Type: FrameNext, Data: []byte("hello")}))
	require.NoError(t, WriteFrame(&buf, Frame{Type: FrameNext}))
	require.NoError(t, WriteFrame(&buf, Frame{Type: FrameComplete}))

	assert.Equal(t, []byte{0, 0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o'}, buf.Bytes()[:10])

	f, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameNext, f.Type)
	assert.Equal(t, "hello", string(f.Data))

	f, err = ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameNext, f.Type)
	assert.Empty(t, f.Data)

	f, err = ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameComplete, f.Type)

	_, err = ReadFrame(&buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFrame_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"truncated header", []byte{0, 0, 0}},
		{"truncated data", []byte{0, 0, 0, 0, 4, 'a'}},
		{"unknown type", []byte{9, 0, 0, 0, 0}},
		{"oversized", []byte{0, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrame(bytes.NewReader(tt.input))
			require.Error(t, err)
			assert.NotErrorIs(t, err, io.EOF)
		})
	}
}
