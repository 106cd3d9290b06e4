package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/vibra/errs"
)

// DefaultZone is the timezone in which stored timestamps are recorded when no other
// zone is configured.
const DefaultZone = "Asia/Seoul"

const (
	localLayout       = "2006-01-02T15:04:05.999999"
	localParseLayout  = "2006-01-02T15:04:05"
	localMinuteLayout = "2006-01-02T15:04"
)

// Layout selects the textual form of a formatted timestamp.
type Layout uint8

const (
	// LayoutLocal renders wall-clock time in the storage zone without an offset,
	// e.g. "2024-05-01T09:30:00".
	LayoutLocal Layout = iota
	// LayoutUTC renders the instant in UTC with a trailing Z, e.g. "2024-05-01T00:30:00Z".
	LayoutUTC
)

func (l Layout) String() string {
	if l == LayoutUTC {
		return "utc"
	}

	return "local"
}

// ParseLayout maps "utc" (case-insensitive) to LayoutUTC and anything else to LayoutLocal.
func ParseLayout(name string) Layout {
	if strings.EqualFold(strings.TrimSpace(name), "utc") {
		return LayoutUTC
	}

	return LayoutLocal
}

// Clock converts between timestamp strings and instants for one storage zone.
//
// Rows carry wall-clock timestamps recorded in the storage zone. Clock is the only
// place that zone is consulted, so it is passed explicitly to everything that
// parses or formats timestamps. Clock is an immutable value and safe for
// concurrent use.
type Clock struct {
	loc *time.Location
}

// NewClock creates a Clock for the named IANA zone.
//
// Returns errs.ErrInvalidZone if the zone cannot be loaded.
func NewClock(zone string) (Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q: %w", errs.ErrInvalidZone, zone, err)
	}

	return Clock{loc: loc}, nil
}

// ClockIn creates a Clock for an already loaded location. A nil location means UTC.
func ClockIn(loc *time.Location) Clock {
	return Clock{loc: loc}
}

// Location returns the storage zone.
func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}

	return c.loc
}

// Parse parses a timestamp argument.
//
// A string ending in Z (or z) or in a numeric offset such as "+09:00" is read as
// an RFC 3339 instant. Anything else is read as a bare wall-clock time in the
// storage zone, with seconds and fractional seconds optional.
//
// Returns:
//   - time.Time: The parsed instant, in the storage zone
//   - bool: false if s is blank, in which case no error is returned
//   - error: errs.ErrInvalidTimestamp wrapping the parse failure
func (c Clock) Parse(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}

	if hasZoneSuffix(s) {
		if last := len(s) - 1; s[last] == 'z' {
			s = s[:last] + "Z"
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%w: %q: %w", errs.ErrInvalidTimestamp, s, err)
		}

		return t.In(c.Location()), true, nil
	}

	t, err := time.ParseInLocation(localParseLayout, s, c.Location())
	if err != nil {
		var minuteErr error
		if t, minuteErr = time.ParseInLocation(localMinuteLayout, s, c.Location()); minuteErr != nil {
			return time.Time{}, false, fmt.Errorf("%w: %q: %w", errs.ErrInvalidTimestamp, s, err)
		}
	}

	return t, true, nil
}

// MustParse is like Parse but panics on failure. It is intended for fixtures.
func (c Clock) MustParse(s string) time.Time {
	t, ok, err := c.Parse(s)
	if err != nil {
		panic(err)
	}
	if !ok {
		panic("timeline: empty timestamp")
	}

	return t
}

// Format renders t using layout.
func (c Clock) Format(t time.Time, layout Layout) string {
	if layout == LayoutUTC {
		return t.UTC().Format(time.RFC3339Nano)
	}

	return t.In(c.Location()).Format(localLayout)
}

// FormatAll renders every timestamp in ts, preserving order.
func (c Clock) FormatAll(ts []time.Time, layout Layout) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = c.Format(t, layout)
	}

	return out
}

// hasZoneSuffix reports whether s ends in Z/z or a ±hh:mm offset.
func hasZoneSuffix(s string) bool {
	n := len(s)
	if s[n-1] == 'Z' || s[n-1] == 'z' {
		return true
	}
	if n < 6 {
		return false
	}
	sign, colon := s[n-6], s[n-3]

	return (sign == '+' || sign == '-') && colon == ':' && isDigits(s[n-5:n-3]) && isDigits(s[n-2:])
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
