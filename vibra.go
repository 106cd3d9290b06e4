// Package vibra decodes the numeric arrays of vibration telemetry and resolves
// which stored rows belong to a requested instant.
//
// Upstream devices store spectra and waveforms as base64 blobs without recording
// the element encoding. vibra infers the encoding by decoding a blob under every
// candidate and scoring how plausible each result is.
//
// # Core Features
//
//   - Six element encodings: float32, float64 and int16 in both byte orders
//   - Frequency-axis scoring that decodes a spectrum's amplitudes under the
//     encoding chosen for its frequency axis
//   - Signal scoring for standalone arrays
//   - Text-or-binary detection for velocity waveforms
//   - Timestamp resolution across channels (exact, latest, by rank, common)
//   - Memory and badger row stores with compressed snapshot files
//
// # Basic Usage
//
// Decoding a spectrum:
//
//	spec := vibra.DecodeSpectrum(freqB64, ampB64)
//	if spec.OK() {
//	    fmt.Println(spec.Encoding, spec.Freq, spec.Amplitude)
//	}
//
// Decoding a velocity waveform:
//
//	values := vibra.DecodeVelocity(valuesB64)
//
// # Package Structure
//
// This package provides top-level wrappers around the codec package using the
// default weights and thresholds. Use codec directly for custom scoring, the
// timeline package for timestamp resolution, and service to combine both over a
// store.
package vibra

import (
	"github.com/arloliu/vibra/codec"
)

var (
	defaultDisambiguator = mustDisambiguator()
	defaultFlexible      = mustFlexibleDecoder()
)

func mustDisambiguator() *codec.Disambiguator {
	d, err := codec.NewDisambiguator()
	if err != nil {
		panic(err)
	}

	return d
}

func mustFlexibleDecoder() *codec.FlexibleDecoder {
	f, err := codec.NewFlexibleDecoder()
	if err != nil {
		panic(err)
	}

	return f
}

// DecodeSpectrum decodes a base64 frequency axis and amplitude array under the
// single encoding that makes the frequency axis most plausible.
//
// Parameters:
//   - freqB64: Base64 frequency axis
//   - ampB64: Base64 amplitude array, decoded with the frequency axis encoding
//
// Returns:
//   - codec.Spectrum: The decoded pair; OK reports false when no encoding
//     produced a plausible axis, in which case both arrays are empty
//
// Example:
//
//	spec := vibra.DecodeSpectrum(row.Freq, row.Amplitude)
func DecodeSpectrum(freqB64, ampB64 string) codec.Spectrum {
	return defaultDisambiguator.ResolveSpectrum(freqB64, ampB64)
}

// DecodeSignal decodes a base64 array that has no companion axis, picking the
// encoding whose peak magnitude is closest to 1.
func DecodeSignal(b64 string) codec.Candidate {
	return defaultDisambiguator.DecodeBest(b64)
}

// DecodeVelocity decodes a velocity waveform stored either as delimited numeric
// text or as packed little-endian floats.
func DecodeVelocity(b64 string) []float64 {
	return defaultFlexible.Decode(b64)
}
