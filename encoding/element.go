package encoding

import (
	"iter"
	"math"

	"github.com/arloliu/vibra/endian"
	"github.com/arloliu/vibra/format"
	"github.com/arloliu/vibra/internal/pool"
)

// ElementDecoder interprets a byte slice as a packed array of fixed-width elements
// under exactly one format.ElementEncoding.
//
// The decoder never guesses: byte order and element width come from the encoding
// it was created with. Trying several encodings against the same bytes is the job
// of the codec package, which treats every encoding as a separate candidate.
//
// ElementDecoder is an immutable value type and is safe for concurrent use.
type ElementDecoder struct {
	enc    format.ElementEncoding
	engine endian.EndianEngine
}

// NewElementDecoder creates a decoder for the given element encoding.
//
// Parameters:
//   - enc: Element encoding used to interpret the input bytes
//
// Returns:
//   - ElementDecoder: A stateless decoder that can be reused
func NewElementDecoder(enc format.ElementEncoding) ElementDecoder {
	return ElementDecoder{
		enc:    enc,
		engine: endian.EngineFor(enc.IsBigEndian()),
	}
}

// Encoding returns the element encoding of the decoder.
func (d ElementDecoder) Encoding() format.ElementEncoding {
	return d.enc
}

// Count returns the number of elements contained in data.
//
// Returns:
//   - int: Number of elements
//   - bool: false if len(data) is not a multiple of the element width
func (d ElementDecoder) Count(data []byte) (int, bool) {
	width := d.enc.Width()
	if width == 0 || len(data)%width != 0 {
		return 0, false
	}

	return len(data) / width, true
}

// At decodes the element at index without any plausibility checks.
//
// Returns false if the index is out of range or the data length does not
// match the element width.
func (d ElementDecoder) At(data []byte, index int) (float64, bool) {
	count, ok := d.Count(data)
	if !ok || index < 0 || index >= count {
		return 0, false
	}

	return d.value(data, index*d.enc.Width()), true
}

// All returns an iterator over every element in data, in storage order.
//
// No finiteness check is applied: NaN and infinite floats are yielded as-is.
// The iterator yields nothing when the data length is not a multiple of the
// element width.
func (d ElementDecoder) All(data []byte) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		count, ok := d.Count(data)
		if !ok {
			return
		}

		width := d.enc.Width()
		for i := range count {
			if !yield(d.value(data, i*width)) {
				return
			}
		}
	}
}

// Decode decodes data strictly.
//
// The result is nil when data is empty, when its length is not a multiple of the
// element width, or, for floating point encodings, when any element is NaN or
// infinite. A single non-finite element is taken as evidence that the encoding
// is wrong, so the whole sequence is rejected rather than filtered.
//
// Integer elements are widened to float64 without scaling.
func (d ElementDecoder) Decode(data []byte) []float64 {
	count, ok := d.Count(data)
	if !ok || count == 0 {
		return nil
	}

	checkFinite := d.enc.IsFloat()
	out := make([]float64, 0, count)
	for v := range d.All(data) {
		if checkFinite && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return nil
		}
		out = append(out, v)
	}

	return out
}

// DecodeRaw decodes every element of data without rejecting non-finite values.
//
// The result is nil when data is empty or its length is not a multiple of the
// element width.
func (d ElementDecoder) DecodeRaw(data []byte) []float64 {
	count, ok := d.Count(data)
	if !ok || count == 0 {
		return nil
	}

	out := make([]float64, 0, count)
	for v := range d.All(data) {
		out = append(out, v)
	}

	return out
}

func (d ElementDecoder) value(data []byte, offset int) float64 {
	switch d.enc.Width() {
	case 4:
		return float64(math.Float32frombits(d.engine.Uint32(data[offset : offset+4])))
	case 8:
		return math.Float64frombits(d.engine.Uint64(data[offset : offset+8]))
	default:
		return float64(int16(d.engine.Uint16(data[offset : offset+2]))) //nolint:gosec
	}
}

// ElementEncoder packs float64 values into a byte array under one element encoding.
//
// It is the inverse of ElementDecoder and is used to build fixtures and to
// re-encode decoded sequences. Values written to an I16 encoder are rounded to the
// nearest integer and saturated to the int16 range; values written to an F32
// encoder are narrowed to float32.
type ElementEncoder struct {
	buf    *pool.ByteBuffer
	enc    format.ElementEncoding
	engine endian.EndianEngine
	count  int
}

// NewElementEncoder creates an encoder for the given element encoding.
//
// The encoder borrows a pooled buffer; call Finish when done.
func NewElementEncoder(enc format.ElementEncoding) *ElementEncoder {
	return &ElementEncoder{
		buf:    pool.GetElementBuffer(),
		enc:    enc,
		engine: endian.EngineFor(enc.IsBigEndian()),
	}
}

// Write appends a single value.
//
// Panics if Finish() has been called.
func (e *ElementEncoder) Write(val float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.buf.Grow(e.enc.Width())
	e.buf.B = e.append(e.buf.B, val)
	e.count++
}

// WriteSlice appends all values with a single buffer growth.
//
// Panics if Finish() has been called.
func (e *ElementEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.buf.Grow(len(values) * e.enc.Width())
	for _, v := range values {
		e.buf.B = e.append(e.buf.B, v)
	}
	e.count += len(values)
}

// Bytes returns a copy of the encoded bytes.
//
// Panics if Finish() has been called.
func (e *ElementEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())

	return out
}

// Len returns the number of values written.
func (e *ElementEncoder) Len() int {
	return e.count
}

// Finish returns the internal buffer to the pool. The encoder is unusable afterwards.
func (e *ElementEncoder) Finish() {
	if e.buf != nil {
		pool.PutElementBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

func (e *ElementEncoder) append(dst []byte, val float64) []byte {
	switch e.enc.Width() {
	case 4:
		return e.engine.AppendUint32(dst, math.Float32bits(float32(val)))
	case 8:
		return e.engine.AppendUint64(dst, math.Float64bits(val))
	default:
		return e.engine.AppendUint16(dst, uint16(saturateInt16(val))) //nolint:gosec
	}
}

func saturateInt16(val float64) int16 {
	switch {
	case math.IsNaN(val):
		return 0
	case val >= math.MaxInt16:
		return math.MaxInt16
	case val <= math.MinInt16:
		return math.MinInt16
	default:
		return int16(math.Round(val))
	}
}

// EncodeElements is a convenience wrapper that encodes values in one call.
func EncodeElements(enc format.ElementEncoding, values []float64) []byte {
	e := NewElementEncoder(enc)
	defer e.Finish()

	e.WriteSlice(values)

	return e.Bytes()
}
