package types

// Partition is the on-disk record set of one calendar date. A missing or
// unreadable partition file reads as Count 0 with no records, never as
// an error.
type Partition struct {
	Date    string   `json:"date"`
	Count   int      `json:"count"`
	Records []Member `json:"data"`
}

// RangeReader reads historical partitions straight from disk. It never
// touches the active partition's in-memory table or its pending persist
// timer, so it may see data up to one debounce window behind memory.
type RangeReader interface {
	// Dates returns every existing partition key, sorted ascending.
	// Files not matching the partition naming convention are ignored.
	Dates() ([]string, error)

	// ReadPartition returns the records of one date. Missing or
	// unreadable files yield an empty partition.
	ReadPartition(date string) *Partition

	// ReadRange returns the partitions whose keys fall within the
	// inclusive [start, end] bound, in ascending date order.
	ReadRange(start, end string) ([]*Partition, error)
}

// Row is one export-ready spreadsheet line.
type Row struct {
	Date  string
	Time  string
	Grade string
	Class string
	Name  string
	Lunch string
}

// Column describes one spreadsheet column: header text, row field key,
// and display width.
type Column struct {
	Header string
	Key    string
	Width  float64
}

// SheetWriter is the opaque spreadsheet sink consumed by the report
// pipeline. The aggregator does not depend on its file format.
type SheetWriter interface {
	// WriteSheet writes rows under the given column spec to path,
	// creating parent directories as needed.
	WriteSheet(path, sheet string, cols []Column, rows []Row) error
}

// ExportResult reports the outcome of one report run. A run with nothing
// to export is a success with Count 0 and an explanatory message.
type ExportResult struct {
	Message  string `json:"message,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	Count    int    `json:"count"`
}
