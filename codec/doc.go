// Package codec turns telemetry blobs of unknown binary layout into float64 sequences.
//
// Spectral arrays are stored as base64 blobs that do not record their element
// type. The Disambiguator recovers it by decoding a blob under every
// format.ElementEncoding and scoring each result for plausibility:
//
//   - FrequencyScore rewards monotonic, evenly spaced axes within a physical range
//   - SignalScore rewards peak magnitudes near unity
//
// The frequency axis of a spectrum selects the encoding; the amplitude array is
// then decoded under the same encoding, never scored separately.
//
//	d, _ := codec.NewDisambiguator()
//	spec := d.ResolveSpectrum(freqB64, ampB64)
//	if !spec.OK() {
//	    // undecodable, not an empty spectrum
//	}
//
// Velocity waveforms use the FlexibleDecoder instead, which distinguishes numeric
// text from packed little-endian floats by the share of printable bytes.
//
// Nothing in this package returns an error for bad input: malformed base64, length
// mismatches and implausible values all end in an empty result.
package codec
