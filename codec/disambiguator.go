package codec

import (
	"fmt"

	"github.com/arloliu/vibra/encoding"
	"github.com/arloliu/vibra/format"
	"github.com/arloliu/vibra/internal/options"
)

// Option configures a Disambiguator.
type Option = options.Option[*Disambiguator]

// WithWeights overrides the frequency-axis score weights.
//
// Returns an error from NewDisambiguator if any weight is NaN or infinite.
func WithWeights(w Weights) Option {
	return options.New(func(d *Disambiguator) error {
		if !w.valid() {
			return fmt.Errorf("invalid frequency score weights: %+v", w)
		}
		d.weights = w

		return nil
	})
}

// Spectrum is the result of resolving a frequency/amplitude blob pair.
//
// Freq and Amplitude were always decoded under the same Encoding. When no encoding
// produced a plausible frequency axis, OK returns false and both sequences are nil;
// callers must treat that as "undecodable" and not as zero-length data.
type Spectrum struct {
	Encoding  format.ElementEncoding
	Freq      []float64
	Amplitude []float64
	Score     float64
}

// OK reports whether a plausible encoding was found.
func (s Spectrum) OK() bool {
	return s.Encoding.Valid()
}

// Disambiguator infers the element encoding of undeclared numeric blobs.
//
// It decodes a blob under each of the six element encodings, scores every
// decode and keeps the best one. The Disambiguator holds only immutable
// configuration and is safe for concurrent use.
type Disambiguator struct {
	weights Weights
}

// NewDisambiguator creates a Disambiguator with the default weights, then applies opts.
func NewDisambiguator(opts ...Option) (*Disambiguator, error) {
	d := &Disambiguator{weights: DefaultWeights()}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// Weights returns the frequency-axis score weights in use.
func (d *Disambiguator) Weights() Weights {
	return d.weights
}

// ResolveSpectrum decodes a base64 frequency/amplitude pair.
//
// Malformed base64 behaves like an empty blob. See ResolveSpectrumBytes.
func (d *Disambiguator) ResolveSpectrum(freqB64, ampB64 string) Spectrum {
	freq, _ := encoding.DecodeBase64(freqB64)
	amp, _ := encoding.DecodeBase64(ampB64)

	return d.ResolveSpectrumBytes(freq, amp)
}

// ResolveSpectrumBytes picks the encoding under which freq looks most like a
// frequency axis and decodes amp under that same encoding.
//
// The amplitude blob is never scored on its own: the two arrays of a spectrum are
// written together, so the frequency axis, which has a recognizable shape, decides
// the encoding for both. Ties between equally scored encodings are resolved in
// favor of the earliest declared one.
//
// Parameters:
//   - freq: Raw frequency axis bytes
//   - amp: Raw amplitude bytes
//
// Returns:
//   - Spectrum: The decoded pair; Spectrum.OK is false if no encoding survived
func (d *Disambiguator) ResolveSpectrumBytes(freq, amp []byte) Spectrum {
	winner := best(d.Candidates(freq, PolicyFrequency))
	if !winner.OK() {
		return Spectrum{Score: winner.Score}
	}

	return Spectrum{
		Encoding:  winner.Encoding,
		Freq:      winner.Values,
		Amplitude: encoding.NewElementDecoder(winner.Encoding).Decode(amp),
		Score:     winner.Score,
	}
}

// DecodeBest decodes a single base64 array under the generic signal policy.
//
// This is a diagnostic entry point for arrays that have no companion axis.
func (d *Disambiguator) DecodeBest(b64 string) Candidate {
	data, _ := encoding.DecodeBase64(b64)

	return d.DecodeBestBytes(data)
}

// DecodeBestBytes returns the best candidate for data under the generic signal policy.
func (d *Disambiguator) DecodeBestBytes(data []byte) Candidate {
	return best(d.Candidates(data, PolicySignal))
}

// Candidates returns every encoding whose decode of data has a finite score under
// policy, in declaration order.
func (d *Disambiguator) Candidates(data []byte, policy Policy) []Candidate {
	switch policy {
	case PolicyFrequency:
		return candidates(data, func(xs []float64) float64 { return FrequencyScore(xs, d.weights) })
	case PolicySignal:
		return candidates(data, SignalScore)
	default:
		return nil
	}
}
