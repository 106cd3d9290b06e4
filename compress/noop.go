package compress

import "github.com/arloliu/vibra/format"

// NoOpCompressor stores payloads uncompressed.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a codec that passes data through unchanged.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Type returns format.CompressionNone.
func (c NoOpCompressor) Type() format.CompressionType {
	return format.CompressionNone
}

// Compress returns data itself; the result shares memory with the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself after checking its length against size.
func (c NoOpCompressor) Decompress(data []byte, size int) ([]byte, error) {
	return checkSize(format.CompressionNone, data, size)
}
