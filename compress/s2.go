package compress

import (
	"fmt"

	"github.com/arloliu/vibra/format"
	"github.com/klauspost/compress/s2"
)

// S2Compressor compresses payloads with S2, the Snappy-compatible format from
// klauspost/compress.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Type returns format.CompressionS2.
func (c S2Compressor) Type() format.CompressionType {
	return format.CompressionS2
}

// Compress compresses data as a single S2 block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes an S2 block into exactly size bytes.
func (c S2Compressor) Decompress(data []byte, size int) ([]byte, error) {
	if err := checkBound(size); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return checkSize(format.CompressionS2, nil, size)
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 header: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("s2 payload declares %d bytes, expected %d", n, size)
	}

	out, err := s2.Decode(make([]byte, size), data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return checkSize(format.CompressionS2, out, size)
}
