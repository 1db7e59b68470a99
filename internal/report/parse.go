// Creation-timestamp parsing for the report pipeline.
//
// Historical partitions mix machine-parseable timestamps with the
// locale-formatted 12-hour form the previous system wrote, e.g.
// "2025. 9. 18. 오후 3:14:05". New records are RFC3339, so the locale
// parser is a legacy-import concern kept only for old partitions.
package report

import (
	"strconv"
	"strings"
	"time"
)

// Korean 12-hour clock markers.
const (
	markerAM = "오전"
	markerPM = "오후"
)

// machineLayouts are tried in order for timestamps without a locale
// marker.
var machineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp parses a record's creation timestamp into a point in
// time in loc. Unparsable input falls back to now rather than failing
// the whole export.
func parseTimestamp(s string, loc *time.Location, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}

	if !strings.Contains(s, markerAM) && !strings.Contains(s, markerPM) {
		for _, layout := range machineLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t
			}
		}
		return now
	}

	if t, ok := parseLocale(s, loc); ok {
		return t
	}
	return now
}

// parseLocale parses the locale 12-hour form. The AM marker at hour 12
// means hour 0 (midnight); the PM marker below hour 12 adds 12.
func parseLocale(s string, loc *time.Location) (time.Time, bool) {
	// "2025. 9. 18. 오후 3:14:05" -> ["2025" "9" "18" "오후" "3:14:05"]
	s = strings.ReplaceAll(s, ". ", " ")
	s = strings.ReplaceAll(s, ".", "")
	parts := strings.Fields(s)
	if len(parts) < 5 {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}

	clock := strings.Split(parts[4], ":")
	if len(clock) != 3 {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(clock[0])
	if err != nil {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(clock[1])
	if err != nil {
		return time.Time{}, false
	}
	second, err := strconv.Atoi(clock[2])
	if err != nil {
		return time.Time{}, false
	}

	switch parts[3] {
	case markerPM:
		if hour < 12 {
			hour += 12
		}
	case markerAM:
		if hour == 12 {
			hour = 0
		}
	default:
		return time.Time{}, false
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), true
}

// sameLocalDate reports whether a and b fall on the same calendar date.
func sameLocalDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
