package compress

import "github.com/arloliu/vibra/format"

// ZstdCompressor compresses payloads as a single Zstandard frame.
//
// The implementation is chosen at build time: pure Go by default, or the
// gozstd cgo binding with the gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}
