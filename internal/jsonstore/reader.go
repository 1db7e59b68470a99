// Historical partition reads. The reader works from disk only and never
// touches the live table or its persist timer, so it may trail the
// in-memory state by up to one debounce window.
package jsonstore

import (
	"log/slog"
	"os"
	"sort"

	"github.com/mesh-intelligence/rollcall/internal/logging"
	"github.com/mesh-intelligence/rollcall/pkg/types"
)

// Reader reads arbitrary partitions on demand, independent of live
// store state. Safe for concurrent use.
type Reader struct {
	dir string
	log *slog.Logger
}

var _ types.RangeReader = (*Reader)(nil)

// NewReader returns a Reader over the given data directory.
func NewReader(dataDir string) *Reader {
	return &Reader{dir: dataDir, log: logging.Component("reader")}
}

// Dates enumerates backing files and returns the partition keys, sorted
// ascending. Malformed or unrelated files are ignored; an unreadable
// directory reads as empty and is logged, never propagated.
func (r *Reader) Dates() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Error("list partitions", "dir", r.dir, "error", err)
		}
		return nil, nil
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if date, ok := partitionDate(e.Name()); ok {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// ReadPartition returns the records of one date. A missing or unreadable
// file yields an empty partition, never an error.
func (r *Reader) ReadPartition(date string) *types.Partition {
	records, err := readPartitionFile(partitionPath(r.dir, date))
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Error("read partition", "date", date, "error", err)
		}
		return &types.Partition{Date: date, Count: 0, Records: []types.Member{}}
	}
	if records == nil {
		records = []types.Member{}
	}
	return &types.Partition{Date: date, Count: len(records), Records: records}
}

// ReadRange returns the partitions whose keys fall within the inclusive
// [start, end] bound, in ascending date order. Date keys are ISO dates,
// so lexical comparison is chronological.
func (r *Reader) ReadRange(start, end string) ([]*types.Partition, error) {
	dates, err := r.Dates()
	if err != nil {
		return nil, err
	}

	var out []*types.Partition
	for _, date := range dates {
		if date < start || date > end {
			continue
		}
		out = append(out, r.ReadPartition(date))
	}
	return out, nil
}
