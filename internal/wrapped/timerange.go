// Package wrapped aggregates a user's Spotify listening data into a
// single yearly-recap snapshot: top tracks and artists, genre breakdown,
// averaged audio features, and a listening-time estimate.
package wrapped

import (
	"fmt"

	"github.com/sd3v/wrapped/internal/shared"
)

// TimeRange selects the lookback window for top tracks and artists.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"  // last 4 weeks
	MediumTerm TimeRange = "medium_term" // last 6 months
	LongTerm   TimeRange = "long_term"   // all time
)

// TimeRanges lists every supported range in display order.
var TimeRanges = []TimeRange{ShortTerm, MediumTerm, LongTerm}

// Label returns the human-readable name for the range.
func (t TimeRange) Label() string {
	switch t {
	case ShortTerm:
		return "Last 4 Weeks"
	case MediumTerm:
		return "Last 6 Months"
	case LongTerm:
		return "All Time"
	default:
		return string(t)
	}
}

func (t TimeRange) String() string { return string(t) }

// ParseTimeRange validates a user-supplied range string.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case ShortTerm, MediumTerm, LongTerm:
		return TimeRange(s), nil
	}
	return "", fmt.Errorf("%w: time range %q (want short_term, medium_term, or long_term)", shared.ErrInvalidArgument, s)
}
