package telemetry

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// Series is a decoded numeric sequence.
//
// It marshals to a JSON array in which NaN and infinite values are written as
// null. Unmarshaling reads null back as NaN.
type Series []float64

// MarshalJSON implements json.Marshaler.
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}

	buf := make([]byte, 0, 2+len(s)*8)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	buf = append(buf, ']')

	return buf, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Series) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*s = nil
		return nil
	}
	if !res.IsArray() {
		return fmt.Errorf("series must be a JSON array: %s", res.Raw)
	}

	elems := res.Array()
	out := make(Series, len(elems))
	for i, e := range elems {
		switch e.Type {
		case gjson.Number:
			out[i] = e.Num
		case gjson.Null:
			out[i] = math.NaN()
		default:
			return fmt.Errorf("invalid series element %d: %s", i, e.Raw)
		}
	}
	*s = out

	return nil
}

// Finite returns a copy of s without NaN and infinite values.
func (s Series) Finite() Series {
	out := make(Series, 0, len(s))
	for _, v := range s {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}

	return out
}
