package facets

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Unknown is returned for relative times that cannot be computed.
	Unknown = "unknown"

	// InvalidDate is returned for dates that cannot be formatted.
	InvalidDate = "Invalid Date"

	// DateLayout is the display layout for absolute dates.
	DateLayout = "Jan 2, 2006"

	// RecentWindow is the age below which a server counts as recently updated.
	RecentWindow = 30 * 24 * time.Hour
)

// Bucket bounds in seconds. Months and years are fixed-length approximations.
const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerMonth  = 2592000
	secondsPerYear   = 31536000
)

// timestampLayouts are tried in order when parsing catalog timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseTimestamp parses the timestamp formats used by the catalog.
// Timestamps without a zone are treated as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp '%s'", s)
}

// RelativeTime describes how long before now t occurred, using whole-unit buckets.
// Times in the future are reported as "just now".
func RelativeTime(t time.Time, now time.Time) string {
	secs := int64(now.Sub(t) / time.Second)

	switch {
	case secs < secondsPerMinute:
		return "just now"
	case secs < secondsPerHour:
		return fmt.Sprintf("%dm ago", secs/secondsPerMinute)
	case secs < secondsPerDay:
		return fmt.Sprintf("%dh ago", secs/secondsPerHour)
	case secs < secondsPerMonth:
		return fmt.Sprintf("%dd ago", secs/secondsPerDay)
	case secs < secondsPerYear:
		return fmt.Sprintf("%dmo ago", secs/secondsPerMonth)
	default:
		return fmt.Sprintf("%dy ago", secs/secondsPerYear)
	}
}

// FormatRelativeTime parses a catalog timestamp and describes it relative to the current time.
// Unparseable input yields Unknown.
func FormatRelativeTime(timestamp string) string {
	return FormatRelativeTimeAt(timestamp, time.Now())
}

// FormatRelativeTimeAt is FormatRelativeTime with an explicit reference time.
func FormatRelativeTimeAt(timestamp string, now time.Time) string {
	t, err := ParseTimestamp(timestamp)
	if err != nil {
		return Unknown
	}
	return RelativeTime(t, now)
}

// FormatDate renders a catalog timestamp as e.g. "Jan 2, 2006" in the timestamp's own zone.
// Unparseable input yields InvalidDate.
func FormatDate(timestamp string) string {
	t, err := ParseTimestamp(timestamp)
	if err != nil {
		return InvalidDate
	}
	return t.Format(DateLayout)
}

// RecentlyUpdated reports whether timestamp falls within window before now.
// Future timestamps count as recent; unparseable ones never do.
func RecentlyUpdated(timestamp string, now time.Time, window time.Duration) bool {
	t, err := ParseTimestamp(timestamp)
	if err != nil {
		return false
	}
	return now.Sub(t) <= window
}
