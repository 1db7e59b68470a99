package report

import (
	"testing"
	"time"
)

var fallback = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func TestParseTimestampMachineFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "RFC3339",
			in:   "2024-05-01T15:14:05Z",
			want: time.Date(2024, 5, 1, 15, 14, 5, 0, time.UTC),
		},
		{
			name: "RFC3339 with offset",
			in:   "2024-05-01T15:14:05+09:00",
			want: time.Date(2024, 5, 1, 15, 14, 5, 0, time.FixedZone("", 9*3600)),
		},
		{
			name: "bare datetime",
			in:   "2024-05-01T15:14:05",
			want: time.Date(2024, 5, 1, 15, 14, 5, 0, time.UTC),
		},
		{
			name: "space-separated datetime",
			in:   "2024-05-01 15:14:05",
			want: time.Date(2024, 5, 1, 15, 14, 5, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTimestamp(tt.in, time.UTC, fallback)
			if !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimestampLocale(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "afternoon adds twelve",
			in:   "2025. 9. 18. 오후 3:14:05",
			want: time.Date(2025, 9, 18, 15, 14, 5, 0, time.UTC),
		},
		{
			name: "noon stays twelve",
			in:   "2025. 9. 18. 오후 12:05:00",
			want: time.Date(2025, 9, 18, 12, 5, 0, 0, time.UTC),
		},
		{
			name: "midnight becomes zero",
			in:   "2025. 9. 18. 오전 12:00:30",
			want: time.Date(2025, 9, 18, 0, 0, 30, 0, time.UTC),
		},
		{
			name: "plain morning hour",
			in:   "2025. 9. 18. 오전 9:07:01",
			want: time.Date(2025, 9, 18, 9, 7, 1, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTimestamp(tt.in, time.UTC, fallback)
			if !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimestampFallsBackToNow(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		"2025. 9. 오후 3:14:05",        // too few fields
		"2025. 9. 18. 오후 3:14",       // missing seconds
		"2025. 9. 18. 오후 x:14:05",    // non-numeric hour
		"yyyy. 9. 18. 오전 3:14:05",    // non-numeric year
		"2025. 99. 18. 오전 3:14:05",   // month out of range
		"01012345678",                 // digits but no timestamp
	}

	for _, in := range inputs {
		if got := parseTimestamp(in, time.UTC, fallback); !got.Equal(fallback) {
			t.Errorf("parseTimestamp(%q) = %v, want fallback %v", in, got, fallback)
		}
	}
}

func TestSameLocalDate(t *testing.T) {
	d1 := time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)
	d2 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 5, 2, 0, 0, 1, 0, time.UTC)

	if !sameLocalDate(d1, d2) {
		t.Error("23:59:59 and 00:00:00 of the same day should match")
	}
	if sameLocalDate(d1, d3) {
		t.Error("00:00:01 of the next day should not match")
	}
}
