// Package report builds export-ready attendance rows from the full
// historical record set and hands them to an opaque spreadsheet sink.
//
// Export runs are triggered fire-and-forget on a short delay after each
// successful create; their outcome never surfaces to the create call. A
// later run simply re-reads full current state, so overlapping runs need
// no coordination.
package report

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/mesh-intelligence/rollcall/internal/logging"
	"github.com/mesh-intelligence/rollcall/pkg/types"
)

// sheetName is the single worksheet of every export artifact.
const sheetName = "Attendance"

// Columns is the fixed export column spec, in sheet order.
var Columns = []types.Column{
	{Header: "Date", Key: "date", Width: 12},
	{Header: "Time", Key: "time", Width: 12},
	{Header: "Grade", Key: "grade", Width: 15},
	{Header: "Class", Key: "class", Width: 10},
	{Header: "Name", Key: "name", Width: 16},
	{Header: "Lunch", Key: "lunch", Width: 15},
}

// Aggregator merges historical partitions, normalizes records, and emits
// rows for a target day.
type Aggregator struct {
	reader    types.RangeReader
	writer    types.SheetWriter
	exportDir string
	loc       *time.Location
	delay     time.Duration

	// now is the clock; overridden in tests.
	now func() time.Time

	log *slog.Logger
}

// New returns an Aggregator reading partitions through reader and
// writing artifacts through writer.
func New(reader types.RangeReader, writer types.SheetWriter, cfg types.Config) *Aggregator {
	return &Aggregator{
		reader:    reader,
		writer:    writer,
		exportDir: cfg.ExportPath(),
		loc:       cfg.Location(),
		delay:     cfg.ExportDelay(),
		now:       time.Now,
		log:       logging.Component("report"),
	}
}

// Export produces the spreadsheet for the calendar day of target. The
// three "nothing to export" cases (no partitions, no records, none on
// the target day) are successes with Count 0, not errors.
func (a *Aggregator) Export(target time.Time) (*types.ExportResult, error) {
	dates, err := a.reader.Dates()
	if err != nil {
		// Read-side failures downgrade to empty results.
		a.log.Error("list partition dates", "error", err)
		dates = nil
	}
	if len(dates) == 0 {
		return &types.ExportResult{Message: "no data to export"}, nil
	}

	parts, err := a.reader.ReadRange(dates[0], dates[len(dates)-1])
	if err != nil {
		a.log.Error("read partition range", "error", err)
		parts = nil
	}

	var members []types.Member
	for _, p := range parts {
		members = append(members, p.Records...)
	}
	if len(members) == 0 {
		return &types.ExportResult{Message: "no members to export"}, nil
	}

	target = target.In(a.loc)
	now := a.now().In(a.loc)

	type stamped struct {
		member types.Member
		at     time.Time
	}
	var todays []stamped
	for _, m := range members {
		at := parseTimestamp(m.CreatedAt, a.loc, now)
		if sameLocalDate(at, target) {
			todays = append(todays, stamped{member: m, at: at})
		}
	}
	if len(todays) == 0 {
		return &types.ExportResult{Message: "no members for target day"}, nil
	}

	dateStr := target.Format("2006-01-02")
	rows := make([]types.Row, 0, len(todays))
	for _, s := range todays {
		grade, class := splitGradeClass(s.member.GradeClass)
		rows = append(rows, types.Row{
			Date:  dateStr,
			Time:  s.at.Format("15:04:05"),
			Grade: grade,
			Class: class,
			Name:  s.member.Name,
			Lunch: s.member.Lunch.Marker(),
		})
	}

	path := filepath.Join(a.exportDir, "attendance_"+dateStr+".xlsx")
	if err := a.writer.WriteSheet(path, sheetName, Columns, rows); err != nil {
		return nil, fmt.Errorf("writing export %s: %w", path, err)
	}

	a.log.Info("exported attendance", "date", dateStr, "rows", len(rows), "path", path)
	return &types.ExportResult{FilePath: path, Count: len(rows)}, nil
}

// ScheduleExport triggers an export for "today" after the configured
// delay. Failures are logged and isolated from the caller; there is no
// cancellation.
func (a *Aggregator) ScheduleExport() {
	time.AfterFunc(a.delay, func() {
		defer func() {
			if r := recover(); r != nil {
				a.log.Error("export panicked", "panic", r)
			}
		}()
		if _, err := a.Export(a.now()); err != nil {
			a.log.Error("export failed", "error", err)
		}
	})
}

// splitGradeClass derives grade and class from the combined field,
// defaulting missing parts to empty strings.
func splitGradeClass(gc string) (grade, class string) {
	parts := strings.SplitN(gc, "-", 2)
	grade = parts[0]
	if len(parts) > 1 {
		class = parts[1]
	}
	return grade, class
}
