package event

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, LocalZone)
}

func clock(h, min int) time.Time {
	return time.Date(2026, 1, 17, h, min, 0, 0, LocalZone)
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Time
		expected string
	}{
		{"saturday january", date(2026, time.January, 17), "Sat, Jan. 17"},
		{"spelled-out march", date(2026, time.March, 2), "Mon, March 2"},
		{"september abbreviation", date(2026, time.September, 4), "Fri, Sept. 4"},
		{"december", date(2026, time.December, 25), "Fri, Dec. 25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.d); got != tt.expected {
				t.Errorf("FormatDate(%v) = %q, expected %q", tt.d, got, tt.expected)
			}
		})
	}
}

func TestFormatDateWeekdayMatchesCalendar(t *testing.T) {
	// Rendering then re-deriving the weekday must agree with the calendar.
	d := date(2026, time.January, 1)
	for i := 0; i < 365; i++ {
		got := FormatDate(d)
		want := d.Format("Mon")
		if got[:3] != want {
			t.Fatalf("FormatDate(%v) = %q, weekday should be %q", d, got, want)
		}
		d = d.AddDate(0, 0, 1)
	}
}

func TestFormatDateRange(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected string
	}{
		{"same day collapses", date(2026, time.January, 17), date(2026, time.January, 17), "Sat, Jan. 17"},
		{"zero end collapses", date(2026, time.January, 17), time.Time{}, "Sat, Jan. 17"},
		{"same month drops weekday", date(2026, time.January, 17), date(2026, time.January, 31), "Jan. 17–31"},
		{"cross month", date(2026, time.January, 17), date(2026, time.February, 15), "Jan. 17–Feb. 15"},
		{"cross month spelled out", date(2026, time.March, 28), date(2026, time.April, 3), "March 28–April 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDateRange(tt.start, tt.end); got != tt.expected {
				t.Errorf("FormatDateRange = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name     string
		t        time.Time
		expected string
	}{
		{"afternoon on the hour", clock(14, 0), "2 p.m."},
		{"afternoon with minutes", clock(14, 30), "2:30 p.m."},
		{"morning", clock(9, 15), "9:15 a.m."},
		{"noon", clock(12, 0), "12 p.m."},
		{"just past noon", clock(12, 30), "12:30 p.m."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatClock(tt.t); got != tt.expected {
				t.Errorf("FormatClock = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestFormatClockRange(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected string
	}{
		{"equal times collapse", clock(19, 0), clock(19, 0), "7 p.m."},
		{"same meridiem drops first suffix", clock(19, 0), clock(21, 0), "7–9 p.m."},
		{"same meridiem with minutes", clock(14, 30), clock(16, 0), "2:30–4 p.m."},
		{"different meridiem keeps both", clock(11, 0), clock(13, 0), "11 a.m.–1 p.m."},
		{"noon start keeps suffix", clock(12, 0), clock(14, 0), "12 p.m.–2 p.m."},
		{"noon end keeps suffix", clock(10, 0), clock(12, 0), "10 a.m.–12 p.m."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatClockRange(tt.start, tt.end); got != tt.expected {
				t.Errorf("FormatClockRange = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		wantHasTime bool
		wantHour    int
		wantDay     int
	}{
		{"date only", "2026-01-17", false, false, 0, 17},
		{"naive datetime keeps digits", "2026-01-17T19:30:00", false, true, 19, 17},
		{"naive short form", "2026-01-17T19:30", false, true, 19, 17},
		{"utc marker converts to local", "2026-01-18T03:30:00Z", false, true, 19, 17},
		{"offset converts to local", "2026-01-17T22:30:00-05:00", false, true, 19, 17},
		{"midnight means no time", "2026-01-17T00:00:00", false, false, 0, 17},
		{"garbage", "next Tuesday", true, false, 0, 0},
		{"empty", "", true, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hasTime, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimestamp(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) failed: %v", tt.input, err)
			}
			if hasTime != tt.wantHasTime {
				t.Errorf("hasTime = %v, expected %v", hasTime, tt.wantHasTime)
			}
			if got.Day() != tt.wantDay {
				t.Errorf("day = %d, expected %d", got.Day(), tt.wantDay)
			}
			if hasTime && got.Hour() != tt.wantHour {
				t.Errorf("hour = %d, expected %d", got.Hour(), tt.wantHour)
			}
		})
	}
}

func TestParseQueryDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2026-03-05", false},
		{"3/5/2026", false},
		{"03/05/2026", false},
		{"March 5", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseQueryDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseQueryDate(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQueryDate(%q) failed: %v", tt.input, err)
			}
			if got.Month() != time.March || got.Day() != 5 || got.Year() != 2026 {
				t.Errorf("ParseQueryDate(%q) = %v, expected 2026-03-05", tt.input, got)
			}
			// Bounds must land at local midnight, the same instant
			// normalized event dates carry.
			if !got.Equal(date(2026, time.March, 5)) {
				t.Errorf("ParseQueryDate(%q) = %v, expected local midnight", tt.input, got)
			}
		})
	}
}
