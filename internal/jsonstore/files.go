// Partition file naming and date-key helpers.
// One file per calendar date: members_<YYYY-MM-DD>.json.
package jsonstore

import (
	"path/filepath"
	"regexp"
	"time"
)

// dateKeyFormat is the partition key layout.
const dateKeyFormat = "2006-01-02"

// partitionFileRE matches partition file names and captures the date key.
var partitionFileRE = regexp.MustCompile(`^members_(\d{4}-\d{2}-\d{2})\.json$`)

// dateKey returns the calendar date of t in the reference timezone.
func dateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateKeyFormat)
}

// partitionPath returns the backing file path for a date key.
func partitionPath(dir, date string) string {
	return filepath.Join(dir, "members_"+date+".json")
}

// partitionDate extracts the date key from a file name. The second
// return value is false for unrelated or malformed names.
func partitionDate(name string) (string, bool) {
	m := partitionFileRE.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
