package rawio

import (
	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/pointbuf/codec"
)

// defaultChunkPoints is the number of points copied per write or read call.
const defaultChunkPoints = 4096

type options struct {
	compression Compression
	zstdLevel   zstd.EncoderLevel
	codec       codec.Codec
	chunkPoints int
}

// Option configures a Writer.
type Option func(*options)

// WithCompression sets the payload compression.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithZstdLevel sets the zstd level (1-22, mapped to the closest encoder level).
func WithZstdLevel(level int) Option {
	return func(o *options) {
		o.zstdLevel = zstd.EncoderLevelFromZstd(level)
	}
}

// WithCodec sets the schema codec. If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithChunkSize sets how many points are copied per underlying write.
func WithChunkSize(points int) Option {
	return func(o *options) {
		if points > 0 {
			o.chunkPoints = points
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		compression: CompressionNone,
		zstdLevel:   zstd.SpeedDefault,
		codec:       codec.Default,
		chunkPoints: defaultChunkPoints,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
