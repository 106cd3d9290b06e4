package compress

import (
	"fmt"

	"github.com/arloliu/vibra/errs"
	"github.com/arloliu/vibra/format"
)

// MaxPayloadSize bounds the uncompressed size a Decompress call will allocate.
const MaxPayloadSize = 1 << 30

// Compressor compresses a complete payload.
//
// The returned slice is owned by the caller. Implementations may return the input
// slice itself when no transformation is applied.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload compressed by the matching Compressor.
type Decompressor interface {
	// Decompress returns the original payload, which must be exactly size bytes long.
	Decompress(data []byte, size int) ([]byte, error)
}

// Codec combines compression and decompression for one format.CompressionType.
type Codec interface {
	Compressor
	Decompressor
	Type() format.CompressionType
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in Codec for compressionType.
//
// Built-in codecs are stateless apart from internal pools and are safe for
// concurrent use.
//
// Returns:
//   - Codec: The codec for the type
//   - error: errs.ErrInvalidCompression for an unknown type
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}

func checkSize(kind format.CompressionType, got []byte, size int) ([]byte, error) {
	if len(got) != size {
		return nil, fmt.Errorf("%s payload decompressed to %d bytes, expected %d", kind, len(got), size)
	}

	return got, nil
}

func checkBound(size int) error {
	if size < 0 || size > MaxPayloadSize {
		return fmt.Errorf("payload size %d out of range [0, %d]", size, MaxPayloadSize)
	}

	return nil
}
