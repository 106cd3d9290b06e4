package encoding

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// whitespaceNumeric matches text made only of numeric characters and whitespace.
var whitespaceNumeric = regexp.MustCompile(`^[-+0-9eE.\s\x0B]+$`)

// ParseDelimited parses numeric text in one of three shapes, tried in order:
//
//  1. a bracketed list such as "[1.0, 2.5, 3]"
//  2. a comma separated list such as "1.0,2.5,3"
//  3. whitespace separated numbers such as "1.0 2.5\n3"
//
// Parsing is lenient: a token that is not a number becomes NaN instead of
// failing the whole parse, and callers filter NaNs when they need to. Text that
// matches none of the shapes yields nil.
//
// Trailing empty fields of a comma list are dropped ("1,2," has two values),
// while leading or interior empty fields become NaN.
func ParseDelimited(text string) []float64 {
	s := trimControl(text)

	switch {
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		inner := trimControl(s[1 : len(s)-1])
		if inner == "" {
			return nil
		}
		if gjson.Valid(s) {
			return parseJSONArray(s)
		}

		return parseTokens(splitComma(inner))
	case strings.Contains(s, ","):
		return parseTokens(splitComma(s))
	case whitespaceNumeric.MatchString(s):
		return parseTokens(strings.Fields(s))
	default:
		return nil
	}
}

// ParseNumber parses a single trimmed token, returning NaN when it is not a number.
//
// Out of range magnitudes saturate to ±Inf (or 0 for underflow) instead of NaN.
func ParseNumber(token string) float64 {
	v, err := strconv.ParseFloat(trimControl(token), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}

		return math.NaN()
	}

	return v
}

func parseJSONArray(s string) []float64 {
	elems := gjson.Parse(s).Array()
	if len(elems) == 0 {
		return nil
	}

	out := make([]float64, 0, len(elems))
	for _, e := range elems {
		if e.Type == gjson.Number {
			out = append(out, e.Num)
			continue
		}
		// a nested array or object counts one NaN per comma-separated piece
		for _, piece := range strings.Split(e.Raw, ",") {
			out = append(out, ParseNumber(piece))
		}
	}

	return out
}

func parseTokens(tokens []string) []float64 {
	if len(tokens) == 0 {
		return nil
	}

	out := make([]float64, len(tokens))
	for i, tok := range tokens {
		out[i] = ParseNumber(tok)
	}

	return out
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	return parts
}

// trimControl strips leading and trailing spaces and ASCII control characters.
func trimControl(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}
