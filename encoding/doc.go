// Package encoding converts between raw telemetry bytes and float64 sequences.
//
// It covers the three shapes a stored array can take:
//
//   - packed fixed-width binary elements (ElementDecoder, ElementEncoder), one
//     format.ElementEncoding at a time
//   - base64 transport text around those bytes (DecodeBase64)
//   - human readable numeric text (ParseDelimited)
//
// Nothing in this package guesses which encoding a blob uses. The codec package
// builds format inference on top of these primitives by decoding the same bytes
// under every encoding and scoring the results.
//
// # Decoding
//
//	dec := encoding.NewElementDecoder(format.F64LE)
//	values := dec.Decode(data) // nil if the length or a float element is invalid
//
// # Encoding
//
//	data := encoding.EncodeElements(format.F32BE, []float64{10, 20, 30, 40})
//
// All decoders are stateless value types and are safe for concurrent use.
package encoding
