package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/vibra/errs"
)

type (
	ElementEncoding uint8
	CompressionType uint8
)

// The declaration order of the element encodings is significant: candidate
// enumeration follows it and ties between equally scored candidates are broken
// in favor of the earlier encoding.
const (
	F32LE ElementEncoding = iota + 1 // F32LE represents IEEE 754 binary32, little-endian.
	F32BE                            // F32BE represents IEEE 754 binary32, big-endian.
	F64LE                            // F64LE represents IEEE 754 binary64, little-endian.
	F64BE                            // F64BE represents IEEE 754 binary64, big-endian.
	I16LE                            // I16LE represents signed 16-bit integers, little-endian.
	I16BE                            // I16BE represents signed 16-bit integers, big-endian.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

var elementEncodings = [...]ElementEncoding{F32LE, F32BE, F64LE, F64BE, I16LE, I16BE}

// ElementEncodings returns every supported element encoding in declaration order.
//
// The returned slice is a fresh copy and may be modified by the caller.
func ElementEncodings() []ElementEncoding {
	out := make([]ElementEncoding, len(elementEncodings))
	copy(out, elementEncodings[:])

	return out
}

// Valid reports whether e is one of the declared element encodings.
func (e ElementEncoding) Valid() bool {
	return e >= F32LE && e <= I16BE
}

// Width returns the size in bytes of a single element, or 0 for an invalid encoding.
func (e ElementEncoding) Width() int {
	switch e {
	case F32LE, F32BE:
		return 4
	case F64LE, F64BE:
		return 8
	case I16LE, I16BE:
		return 2
	default:
		return 0
	}
}

// IsFloat reports whether the encoding carries IEEE 754 floating point elements.
func (e ElementEncoding) IsFloat() bool {
	switch e {
	case F32LE, F32BE, F64LE, F64BE:
		return true
	default:
		return false
	}
}

// IsBigEndian reports whether elements are stored most significant byte first.
func (e ElementEncoding) IsBigEndian() bool {
	switch e {
	case F32BE, F64BE, I16BE:
		return true
	default:
		return false
	}
}

func (e ElementEncoding) String() string {
	switch e {
	case F32LE:
		return "f32le"
	case F32BE:
		return "f32be"
	case F64LE:
		return "f64le"
	case F64BE:
		return "f64be"
	case I16LE:
		return "i16le"
	case I16BE:
		return "i16be"
	default:
		return "unknown"
	}
}

// ParseElementEncoding resolves an encoding from its String form, ignoring case.
func ParseElementEncoding(name string) (ElementEncoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range elementEncodings {
		if e.String() == key {
			return e, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrInvalidEncoding, name)
}

// MarshalText implements encoding.TextMarshaler using the String form.
func (e ElementEncoding) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidEncoding, uint8(e))
	}

	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *ElementEncoding) UnmarshalText(text []byte) error {
	parsed, err := ParseElementEncoding(string(text))
	if err != nil {
		return err
	}
	*e = parsed

	return nil
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType resolves a compression type from its String form, ignoring case.
func ParseCompressionType(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidCompression, name)
	}
}
