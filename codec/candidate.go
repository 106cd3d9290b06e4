package codec

import (
	"math"

	"github.com/arloliu/vibra/encoding"
	"github.com/arloliu/vibra/format"
)

// Policy selects the scoring function applied to decoded candidates.
type Policy uint8

const (
	// PolicyFrequency scores a candidate as a monotonic frequency axis.
	PolicyFrequency Policy = iota + 1
	// PolicySignal scores a candidate as a generic bounded signal.
	PolicySignal
)

func (p Policy) String() string {
	switch p {
	case PolicyFrequency:
		return "frequency"
	case PolicySignal:
		return "signal"
	default:
		return "unknown"
	}
}

// Candidate is one hypothesized decoding of a blob under a specific element encoding.
//
// Candidates are compared only by Score, higher is better. A zero Candidate (invalid
// encoding, nil Values, -Inf score) stands for "no plausible decode".
type Candidate struct {
	Encoding format.ElementEncoding
	Values   []float64
	Score    float64
}

// OK reports whether the candidate carries a plausible decode.
func (c Candidate) OK() bool {
	return c.Encoding.Valid() && !math.IsInf(c.Score, -1) && !math.IsNaN(c.Score)
}

func noCandidate() Candidate {
	return Candidate{Score: math.Inf(-1)}
}

// candidates decodes data under every encoding in declaration order and keeps the
// ones whose score is finite.
func candidates(data []byte, score func([]float64) float64) []Candidate {
	out := make([]Candidate, 0, len(format.ElementEncodings()))
	for _, enc := range format.ElementEncodings() {
		values := encoding.NewElementDecoder(enc).Decode(data)
		sc := score(values)
		if math.IsNaN(sc) || math.IsInf(sc, 0) {
			continue
		}
		out = append(out, Candidate{Encoding: enc, Values: values, Score: sc})
	}

	return out
}

// best returns the candidate with the strictly highest score. Candidates must be in
// declaration order, so an exact tie keeps the earliest declared encoding.
func best(cands []Candidate) Candidate {
	winner := noCandidate()
	for _, c := range cands {
		if !winner.OK() || c.Score > winner.Score {
			winner = c
		}
	}

	return winner
}
