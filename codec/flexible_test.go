package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/arloliu/vibra/encoding"
	"github.com/arloliu/vibra/format"
	"github.com/stretchr/testify/require"
)

func newTestFlexible(t *testing.T, opts ...FlexibleOption) *FlexibleDecoder {
	t.Helper()

	f, err := NewFlexibleDecoder(opts...)
	require.NoError(t, err)

	return f
}

func TestFlexibleDecoder_Classify(t *testing.T) {
	f := newTestFlexible(t)

	tests := []struct {
		name string
		data []byte
		want Kind
	}{
		{"empty", nil, KindText},
		{"plain text", []byte("1.5, 2.5, 3.5"), KindText},
		{"tabs and newlines", []byte("1\t2\r\n3"), KindText},
		{"ninety percent printable", append(bytes.Repeat([]byte{'1'}, 9), 0x01), KindText},
		{"half printable", append(bytes.Repeat([]byte{'1'}, 5), bytes.Repeat([]byte{0x00}, 5)...), KindBinary},
		{"high bytes", bytes.Repeat([]byte{0xF0}, 8), KindBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, f.Classify(tt.data))
		})
	}
}

func TestTextRatio(t *testing.T) {
	require.InDelta(t, 1.0, TextRatio(nil), 0)
	require.InDelta(t, 0.5, TextRatio([]byte{'a', 0x00}), 1e-12)
	require.InDelta(t, 0.0, TextRatio([]byte{0x7F, 0x80}), 0)
}

func TestFlexibleDecoder_Text(t *testing.T) {
	f := newTestFlexible(t)

	tests := []struct {
		name string
		text string
		want []float64
	}{
		{"comma list", "1.5,2.5,3.5", []float64{1.5, 2.5, 3.5}},
		{"json list", "[1, 2.5, -3e2]", []float64{1, 2.5, -300}},
		{"whitespace list", "1 2\n3\t4", []float64{1, 2, 3, 4}},
		{"trailing comma", "1,2,", []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Decode(encoding.EncodeBase64([]byte(tt.text)))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFlexibleDecoder_TextWithBadToken(t *testing.T) {
	f := newTestFlexible(t)

	got := f.DecodeBytes([]byte("1,x,3"))
	require.Len(t, got, 3)
	require.InDelta(t, 1.0, got[0], 0)
	require.True(t, math.IsNaN(got[1]))
	require.InDelta(t, 3.0, got[2], 0)
}

func TestFlexibleDecoder_UnrecognizedText(t *testing.T) {
	f := newTestFlexible(t)

	require.Empty(t, f.DecodeBytes([]byte("hello world")))
}

func TestFlexibleDecoder_BinaryFloat64(t *testing.T) {
	f := newTestFlexible(t)

	data := encoding.EncodeElements(format.F64LE, []float64{1, 2})
	require.Equal(t, KindBinary, f.Classify(data))

	got := f.Decode(encoding.EncodeBase64(data))
	require.Equal(t, []float64{1, 2}, got)
}

func TestFlexibleDecoder_BinaryFloat32(t *testing.T) {
	f := newTestFlexible(t)

	data := encoding.EncodeElements(format.F32LE, []float64{1, 2, 3})
	require.Len(t, data, 12)
	require.Equal(t, KindBinary, f.Classify(data))

	require.Equal(t, []float64{1, 2, 3}, f.DecodeBytes(data))
}

func TestFlexibleDecoder_BinaryKeepsNaN(t *testing.T) {
	f := newTestFlexible(t)

	data := encoding.EncodeElements(format.F64LE, []float64{math.NaN(), 1})

	got := f.DecodeBytes(data)
	require.Len(t, got, 2)
	require.True(t, math.IsNaN(got[0]))
}

func TestFlexibleDecoder_BinaryOddLength(t *testing.T) {
	f := newTestFlexible(t)

	require.Nil(t, f.DecodeBytes([]byte{0x00, 0x01, 0x02, 0x03, 0x04}))
}

func TestFlexibleDecoder_EmptyAndMalformed(t *testing.T) {
	f := newTestFlexible(t)

	require.Empty(t, f.Decode(""))
	require.Empty(t, f.Decode("!!!"))
	require.Empty(t, f.DecodeBytes(nil))
}

func TestWithTextThreshold(t *testing.T) {
	f := newTestFlexible(t, WithTextThreshold(0.5))

	half := append(bytes.Repeat([]byte{'1'}, 5), bytes.Repeat([]byte{0x00}, 5)...)
	require.Equal(t, KindText, f.Classify(half))

	for _, bad := range []float64{0, -0.1, 1.5, math.NaN()} {
		_, err := NewFlexibleDecoder(WithTextThreshold(bad))
		require.Error(t, err, "threshold %v", bad)
	}
}
