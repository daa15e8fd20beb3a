package rawio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	magic   = "PBUF"
	version = 1

	// headerAlign is the alignment of the payload offset.
	headerAlign = 64

	flagCompressionMask = 0x03
	flagBigEndian       = 0x80

	maxSchemaLen = 1 << 20

	// maxPointSize bounds the stride of a layout stored in a header.
	maxPointSize = 1 << 16
	// readChunkBytes bounds the bytes ReadInto grows dst by per step.
	readChunkBytes = 1 << 20

	// maxPreallocPoints caps the capacity ReadFile reserves from the header count.
	maxPreallocPoints = 1 << 16
)

// Compression selects the payload encoding.
type Compression uint8

const (
	// CompressionNone stores points as raw bytes.
	CompressionNone Compression = iota
	// CompressionZstd stores points as one zstd stream.
	CompressionZstd
	// CompressionLZ4 stores points as one lz4 frame.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "zstd" or "lz4".
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("rawio: unknown compression %q", s)
	}
}

var (
	// ErrMalformedHeader is returned when a file does not start with a valid header.
	ErrMalformedHeader = errors.New("rawio: malformed header")
	// ErrShortRead is returned when the payload ends before the announced point count.
	ErrShortRead = fmt.Errorf("rawio: short read: %w", io.ErrUnexpectedEOF)
	// ErrLayoutMismatch is returned when a buffer's layout differs from the file's.
	ErrLayoutMismatch = errors.New("rawio: layout mismatch")
	// ErrAlreadyWritten is returned by a second WriteBuffer call.
	ErrAlreadyWritten = errors.New("rawio: buffer already written")
	// ErrByteOrder is returned when the payload byte order differs from the host's.
	ErrByteOrder = errors.New("rawio: payload byte order differs from host")
)

// hostBigEndian reports whether the native byte order is big-endian.
var hostBigEndian = binary.NativeEndian.Uint16([]byte{0, 1}) == 1

// payloadOffset returns the aligned offset following a header of n bytes.
func payloadOffset(n int) int {
	return (n + headerAlign - 1) / headerAlign * headerAlign
}
