package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireSeq(t *testing.T, want []float64, got []float64) {
	t.Helper()

	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			require.True(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		require.Equal(t, want[i], got[i], "index %d", i)
	}
}

func TestParseDelimited(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name  string
		input string
		want  []float64
	}{
		{"json array", "[1.5, 2, -3e2]", []float64{1.5, 2, -300}},
		{"json array with non-number", `[1, "x", null]`, []float64{1, nan, nan}},
		{"json array with nested array", "[[1,2],3]", []float64{nan, nan, 3}},
		{"json array with nested object", `[{"a":1,"b":2},4]`, []float64{nan, nan, 4}},
		{"bracketed but not json", "[1, abc, 3]", []float64{1, nan, 3}},
		{"bracketed trailing comma", "[1,2,]", []float64{1, 2}},
		{"empty brackets", "[ ]", nil},
		{"comma list", "0.1,0.2,0.3", []float64{0.1, 0.2, 0.3}},
		{"comma list trailing empties", "1,2,,", []float64{1, 2}},
		{"comma list leading empty", ",1", []float64{nan, 1}},
		{"comma list bad token", "1,two,3", []float64{1, nan, 3}},
		{"whitespace list", "1 2\t3\n4", []float64{1, 2, 3, 4}},
		{"surrounding whitespace", "\r\n 5 6 \n", []float64{5, 6}},
		{"whitespace malformed token", "1 2..3", []float64{1, nan}},
		{"unrecognized text", "hello world", nil},
		{"empty", "", nil},
		{"overflow saturates", "1e400,-1e400", []float64{math.Inf(1), math.Inf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDelimited(tt.input)
			if tt.want == nil {
				require.Empty(t, got)
				return
			}
			requireSeq(t, tt.want, got)
		})
	}
}

func TestParseNumber(t *testing.T) {
	require.Equal(t, 42.0, ParseNumber(" 42 "))
	require.Equal(t, -0.5, ParseNumber("-5e-1"))
	require.True(t, math.IsNaN(ParseNumber("")))
	require.True(t, math.IsNaN(ParseNumber("4x")))
}
