package codec

import (
	"fmt"

	"github.com/arloliu/vibra/encoding"
	"github.com/arloliu/vibra/format"
	"github.com/arloliu/vibra/internal/options"
)

// DefaultTextThreshold is the minimum fraction of printable bytes for a blob to be
// treated as text.
const DefaultTextThreshold = 0.85

// Kind is the classification of a flexible blob.
type Kind uint8

const (
	KindText   Kind = iota + 1 // KindText marks delimited numeric text.
	KindBinary                 // KindBinary marks packed little-endian floats.
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// FlexibleOption configures a FlexibleDecoder.
type FlexibleOption = options.Option[*FlexibleDecoder]

// WithTextThreshold overrides the printable-byte ratio above which a blob is text.
func WithTextThreshold(ratio float64) FlexibleOption {
	return options.New(func(f *FlexibleDecoder) error {
		if !(ratio > 0 && ratio <= 1) {
			return fmt.Errorf("text threshold must be in (0, 1]: %v", ratio)
		}
		f.textThreshold = ratio

		return nil
	})
}

// FlexibleDecoder decodes arrays that may be stored either as numeric text or as
// packed binary floats, such as velocity waveforms.
//
// Unlike spectra, these arrays have no companion axis to validate an encoding
// against, so the binary path relies on byte length alone and applies no
// plausibility scoring.
type FlexibleDecoder struct {
	textThreshold float64
}

// NewFlexibleDecoder creates a FlexibleDecoder with DefaultTextThreshold, then applies opts.
func NewFlexibleDecoder(opts ...FlexibleOption) (*FlexibleDecoder, error) {
	f := &FlexibleDecoder{textThreshold: DefaultTextThreshold}
	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}

	return f, nil
}

// Decode decodes a base64 blob. Empty or malformed base64 yields nil.
func (f *FlexibleDecoder) Decode(b64 string) []float64 {
	data, ok := encoding.DecodeBase64(b64)
	if !ok {
		return nil
	}

	return f.DecodeBytes(data)
}

// DecodeBytes decodes raw blob bytes.
//
// Text blobs are parsed with encoding.ParseDelimited, so malformed tokens become
// NaN. Binary blobs are read as little-endian float64 when the length is a nonzero
// multiple of 8, otherwise as little-endian float32 when it is a nonzero multiple
// of 4, otherwise nil. Binary values are returned as stored, including NaN.
func (f *FlexibleDecoder) DecodeBytes(data []byte) []float64 {
	if f.Classify(data) == KindText {
		return encoding.ParseDelimited(string(data))
	}

	switch {
	case len(data) > 0 && len(data)%8 == 0:
		return encoding.NewElementDecoder(format.F64LE).DecodeRaw(data)
	case len(data) > 0 && len(data)%4 == 0:
		return encoding.NewElementDecoder(format.F32LE).DecodeRaw(data)
	default:
		return nil
	}
}

// Classify reports whether data is text or binary.
//
// Data is text when at least the threshold fraction of its bytes are tab, CR, LF
// or printable ASCII (0x20-0x7E). Empty data is text.
func (f *FlexibleDecoder) Classify(data []byte) Kind {
	if float64(printableCount(data)) >= float64(len(data))*f.textThreshold {
		return KindText
	}

	return KindBinary
}

// TextRatio returns the fraction of printable bytes in data, 1 for empty data.
func TextRatio(data []byte) float64 {
	if len(data) == 0 {
		return 1
	}

	return float64(printableCount(data)) / float64(len(data))
}

func printableCount(data []byte) int {
	n := 0
	for _, c := range data {
		if c == '\t' || c == '\n' || c == '\r' || (c >= 0x20 && c < 0x7F) {
			n++
		}
	}

	return n
}
