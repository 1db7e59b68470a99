package excel

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/rollcall/pkg/types"
)

var testCols = []types.Column{
	{Header: "Date", Key: "date", Width: 12},
	{Header: "Time", Key: "time", Width: 12},
	{Header: "Grade", Key: "grade", Width: 15},
	{Header: "Class", Key: "class", Width: 10},
	{Header: "Name", Key: "name", Width: 16},
	{Header: "Lunch", Key: "lunch", Width: 15},
}

func TestWriteSheetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "attendance_2024-05-01.xlsx")

	rows := []types.Row{
		{Date: "2024-05-01", Time: "08:30:05", Grade: "3", Class: "2", Name: "Kim", Lunch: "Y"},
		{Date: "2024-05-01", Time: "12:01:00", Grade: "6", Class: "", Name: "Lee", Lunch: "N"},
	}

	w := NewWriter()
	if err := w.WriteSheet(path, "Attendance", testCols, rows); err != nil {
		t.Fatalf("WriteSheet failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Attendance" {
		t.Fatalf("sheets = %v, want [Attendance]", got)
	}

	cells, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(cells) != 3 {
		t.Fatalf("sheet has %d rows, want header + 2", len(cells))
	}

	wantHeader := []string{"Date", "Time", "Grade", "Class", "Name", "Lunch"}
	for i, h := range wantHeader {
		if cells[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, cells[0][i], h)
		}
	}
	if cells[1][4] != "Kim" || cells[1][5] != "Y" {
		t.Errorf("row 1 = %v", cells[1])
	}
	if cells[2][0] != "2024-05-01" || cells[2][5] != "N" {
		t.Errorf("row 2 = %v", cells[2])
	}
}

func TestWriteSheetEmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance_2024-05-01.xlsx")

	w := NewWriter()
	if err := w.WriteSheet(path, "Attendance", testCols, nil); err != nil {
		t.Fatalf("WriteSheet failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	cells, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(cells) != 1 {
		t.Errorf("sheet has %d rows, want header only", len(cells))
	}
}
