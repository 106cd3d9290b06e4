package codec

import (
	"math"

	"github.com/arloliu/vibra/internal/pool"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Scoring constants. The weights and bounds are calibrated against real sensor
// data only through long use; keep them stable unless that calibration is redone.
const (
	// MinElements is the minimum sequence length that can be scored at all.
	MinElements = 4

	// ImplausibleScore is returned for sequences that decode cleanly but whose
	// range makes them an unlikely physical signal. It is low but finite, so such
	// a candidate can still win when nothing better exists.
	ImplausibleScore = -100.0

	// MinFrequency and MaxFrequency bound a plausible frequency axis in Hz.
	MinFrequency = -1e-6
	MaxFrequency = 1e12

	// MaxSignalMagnitude bounds a plausible generic signal.
	MaxSignalMagnitude = 1e18

	minSpan         = 1e-12
	minMagnitude    = 1e-18
	degenerateCV    = 1e9
	defaultAscendW  = 100.0
	defaultUniformW = 50.0
	defaultSpanW    = 10.0
)

// Weights are the coefficients of the frequency-axis score.
type Weights struct {
	// Ascending multiplies the fraction of strictly increasing steps.
	Ascending float64 `mapstructure:"ascending" yaml:"ascending"`

	// Uniformity multiplies 1/(1+cv), where cv is the coefficient of variation of the steps.
	Uniformity float64 `mapstructure:"uniformity" yaml:"uniformity"`

	// Span multiplies log10 of the axis span.
	Span float64 `mapstructure:"span" yaml:"span"`
}

// DefaultWeights returns the standard 100/50/10 weighting.
func DefaultWeights() Weights {
	return Weights{
		Ascending:  defaultAscendW,
		Uniformity: defaultUniformW,
		Span:       defaultSpanW,
	}
}

func (w Weights) valid() bool {
	for _, v := range []float64{w.Ascending, w.Uniformity, w.Span} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// FrequencyScore rates how plausible xs is as a frequency bin axis.
//
// A frequency axis is expected to be monotonically increasing, evenly spaced and
// within a physical range. The score is
//
//	w.Ascending*ascRatio + w.Uniformity/(1+cv) + w.Span*log10(max(1e-12, max-min))
//
// where ascRatio is the fraction of strictly increasing consecutive steps and cv is
// the coefficient of variation of the step sizes (population standard deviation
// over absolute mean step).
//
// Returns:
//   - -Inf if xs has fewer than MinElements values, contains NaN/Inf, or is constant
//   - ImplausibleScore if min < MinFrequency or max > MaxFrequency
//   - the weighted score otherwise
func FrequencyScore(xs []float64, w Weights) float64 {
	n := len(xs)
	if n < MinElements || !allFinite(xs) {
		return math.Inf(-1)
	}

	lo, hi := floats.Min(xs), floats.Max(xs)
	if hi <= lo {
		return math.Inf(-1)
	}
	if lo < MinFrequency || hi > MaxFrequency {
		return ImplausibleScore
	}

	steps, cleanup := pool.GetFloat64Slice(n - 1)
	defer cleanup()

	ascending := 0
	for i := range steps {
		steps[i] = xs[i+1] - xs[i]
		if steps[i] > 0 {
			ascending++
		}
	}
	ascRatio := float64(ascending) / float64(len(steps))

	return w.Ascending*ascRatio + w.Uniformity/(1+stepCV(steps)) + w.Span*math.Log10(math.Max(minSpan, hi-lo))
}

// stepCV returns the coefficient of variation of steps, or degenerateCV when the
// mean step is zero.
func stepCV(steps []float64) float64 {
	m := float64(len(steps))
	mean, sampleVar := stat.MeanVariance(steps, nil)
	if mean == 0 {
		return degenerateCV
	}

	// population variance
	variance := math.Max(0, sampleVar*(m-1)/m)

	return math.Sqrt(variance) / math.Abs(mean)
}

// SignalScore rates how plausible xs is as a generic bounded physical signal.
//
// Signals whose peak magnitude is near unity score highest (1.0); the score decays
// with the distance of the peak's order of magnitude from zero, penalizing both
// near-zero garbage and exploding values.
//
// Returns:
//   - -Inf if xs has fewer than MinElements values or contains NaN/Inf
//   - ImplausibleScore if the peak magnitude exceeds MaxSignalMagnitude
//   - 1/(1+|log10(max(1e-18, peak))|) otherwise
func SignalScore(xs []float64) float64 {
	if len(xs) < MinElements || !allFinite(xs) {
		return math.Inf(-1)
	}

	peak := floats.Norm(xs, math.Inf(1))
	if peak > MaxSignalMagnitude {
		return ImplausibleScore
	}

	return 1.0 / (1.0 + math.Abs(math.Log10(math.Max(minMagnitude, peak))))
}

func allFinite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
