package format

import (
	"testing"

	"github.com/arloliu/vibra/errs"
	"github.com/stretchr/testify/require"
)

func TestElementEncodings_DeclarationOrder(t *testing.T) {
	require.Equal(t,
		[]ElementEncoding{F32LE, F32BE, F64LE, F64BE, I16LE, I16BE},
		ElementEncodings())

	// returned slice is a copy
	encs := ElementEncodings()
	encs[0] = I16BE
	require.Equal(t, F32LE, ElementEncodings()[0])
}

func TestElementEncoding_Properties(t *testing.T) {
	tests := []struct {
		enc       ElementEncoding
		width     int
		isFloat   bool
		bigEndian bool
		name      string
	}{
		{F32LE, 4, true, false, "f32le"},
		{F32BE, 4, true, true, "f32be"},
		{F64LE, 8, true, false, "f64le"},
		{F64BE, 8, true, true, "f64be"},
		{I16LE, 2, false, false, "i16le"},
		{I16BE, 2, false, true, "i16be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.enc.Valid())
			require.Equal(t, tt.width, tt.enc.Width())
			require.Equal(t, tt.isFloat, tt.enc.IsFloat())
			require.Equal(t, tt.bigEndian, tt.enc.IsBigEndian())
			require.Equal(t, tt.name, tt.enc.String())

			parsed, err := ParseElementEncoding(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.enc, parsed)
		})
	}
}

func TestElementEncoding_Invalid(t *testing.T) {
	var zero ElementEncoding
	require.False(t, zero.Valid())
	require.Equal(t, 0, zero.Width())
	require.Equal(t, "unknown", ElementEncoding(42).String())

	_, err := ParseElementEncoding("f128le")
	require.ErrorIs(t, err, errs.ErrInvalidEncoding)

	enc, err := ParseElementEncoding(" F64BE ")
	require.NoError(t, err)
	require.Equal(t, F64BE, enc)
}

func TestParseCompressionType(t *testing.T) {
	tests := map[string]CompressionType{
		"":     CompressionNone,
		"none": CompressionNone,
		"ZSTD": CompressionZstd,
		"s2":   CompressionS2,
		"lz4":  CompressionLZ4,
	}
	for name, want := range tests {
		got, err := ParseCompressionType(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got)
	}

	_, err := ParseCompressionType("brotli")
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
	require.Equal(t, "Unknown", CompressionType(0).String())
}

func TestElementEncoding_Text(t *testing.T) {
	text, err := I16BE.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "i16be", string(text))

	var enc ElementEncoding
	require.NoError(t, enc.UnmarshalText([]byte("F32LE")))
	require.Equal(t, F32LE, enc)

	_, err = ElementEncoding(0).MarshalText()
	require.ErrorIs(t, err, errs.ErrInvalidEncoding)
	require.ErrorIs(t, enc.UnmarshalText([]byte("bogus")), errs.ErrInvalidEncoding)
	require.Equal(t, F32LE, enc)
}
