package numfmt_test

import (
	"testing"
	"time"

	"github.com/TsubasaBE/go-timesheet/numfmt"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		serial float64
		format string
		want   string
	}{
		{"iso date", 45285, "yyyy-mm-dd", "2023-12-25"},
		{"long date", 45285, "DDDD DD/MM/YYYY", "Monday 25/12/2023"},
		{"elapsed", 6.5 / 24, "[h]:mm:ss", "6:30:00"},
		{"elapsed beyond a day", 25.25 / 24, "[h]:mm", "25:15"},
		{"time of day", 43467.375, "hh:mm", "09:00"},
		{"general", 42, "General", "42"},
		{"empty format", 1.5, "", "1.5"},
		{"no date tokens", 42, "0.00", "42"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := numfmt.Format(tc.serial, tc.format); got != tc.want {
				t.Errorf("Format(%v, %q) = %q, want %q", tc.serial, tc.format, got, tc.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := numfmt.Date(d, ""); got != "2019-01-02 Wed" {
		t.Errorf("Date(default) = %q", got)
	}
	if got := numfmt.Date(d, "yyyy-mm-dd"); got != "2019-01-02" {
		t.Errorf("Date(iso) = %q", got)
	}
	if got := numfmt.Serial(d); got != 43467 {
		t.Errorf("Serial = %v, want 43467", got)
	}
}

func TestMinutes(t *testing.T) {
	tests := map[int]string{0: "0:00", 7: "0:07", 90: "1:30", 360: "6:00", 1500: "25:00"}
	for m, want := range tests {
		if got := numfmt.Minutes(m, ""); got != want {
			t.Errorf("Minutes(%d) = %q, want %q", m, got, want)
		}
	}
	if got := numfmt.Minutes(135, "[mm]"); got != "135" {
		t.Errorf("Minutes(135, [mm]) = %q", got)
	}
}
