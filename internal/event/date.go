package event

import (
	"fmt"
	"strings"
	"time"
)

// LocalZone is the reference time zone for all displayed times. Timestamps
// carrying an explicit offset are converted into it; naive timestamps are
// read as already-local clock digits and never shifted.
var LocalZone = func() *time.Location {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// apMonths maps time.Month to its AP-style abbreviation. March through July
// are spelled out, the rest abbreviate with a period.
var apMonths = [13]string{
	"", "Jan.", "Feb.", "March", "April", "May", "June",
	"July", "Aug.", "Sept.", "Oct.", "Nov.", "Dec.",
}

// APMonth returns the AP-style abbreviation for a month.
func APMonth(m time.Month) string {
	return apMonths[m]
}

// ParseQueryDate parses the two calendar date formats accepted from
// callers: "2006-01-02" and "1/2/2006". The result is midnight in
// LocalZone, the same instant normalized event dates carry, so window
// bounds compare against event starts without a zone offset creeping in.
func ParseQueryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02", s, LocalZone); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("1/2/2006", s, LocalZone); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or M/D/YYYY)", s)
}

// ParseTimestamp parses a scraped date or datetime string.
//
// Values with an explicit offset or UTC marker are converted to LocalZone.
// Naive values keep their clock digits as local time. Date-only values and
// midnight timestamps report hasTime=false: a 00:00 start is treated as "no
// time known", not a real midnight event.
func ParseTimestamp(s string) (t time.Time, hasTime bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("empty timestamp")
	}

	// Offset-bearing formats first; these get shifted into LocalZone.
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00"} {
		if parsed, perr := time.Parse(layout, s); perr == nil {
			local := parsed.In(LocalZone)
			return local, !isMidnight(local), nil
		}
	}

	// Naive datetime: trust the clock digits as-is.
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"} {
		if parsed, perr := time.ParseInLocation(layout, s, LocalZone); perr == nil {
			return parsed, !isMidnight(parsed), nil
		}
	}

	// Plain calendar date.
	if parsed, perr := time.ParseInLocation("2006-01-02", s, LocalZone); perr == nil {
		return parsed, false, nil
	}

	return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", s)
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0
}

// FormatDate renders a single calendar date AP style: "Sat, Jan. 17".
func FormatDate(d time.Time) string {
	return fmt.Sprintf("%s, %s %d", d.Format("Mon"), APMonth(d.Month()), d.Day())
}

// FormatDateRange renders a date span. A single-day span renders like
// FormatDate. A multi-day span drops the weekday so the range does not read
// as a weekly recurrence: "Jan. 17–31" within one month, "Jan. 17–Feb. 15"
// across months.
func FormatDateRange(start, end time.Time) string {
	if end.IsZero() || sameDay(start, end) {
		return FormatDate(start)
	}
	if start.Month() == end.Month() && start.Year() == end.Year() {
		return fmt.Sprintf("%s %d–%d", APMonth(start.Month()), start.Day(), end.Day())
	}
	return fmt.Sprintf("%s %d–%s %d", APMonth(start.Month()), start.Day(), APMonth(end.Month()), end.Day())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FormatClock renders a time of day AP style: "2 p.m.", "2:30 p.m.",
// "12 p.m.". Minutes are omitted when zero.
func FormatClock(t time.Time) string {
	hour, suffix := clockParts(t)
	if t.Minute() == 0 {
		return fmt.Sprintf("%d %s", hour, suffix)
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), suffix)
}

// FormatClockRange renders a start/end time pair. Equal times collapse to
// one. When both share a meridiem and neither displays as 12, the first
// time's suffix is dropped: "7–9 p.m." rather than "7 p.m.–9 p.m.".
func FormatClockRange(start, end time.Time) string {
	if end.IsZero() || (start.Hour() == end.Hour() && start.Minute() == end.Minute()) {
		return FormatClock(start)
	}
	startHour, startSuffix := clockParts(start)
	endHour, endSuffix := clockParts(end)
	if startSuffix == endSuffix && startHour != 12 && endHour != 12 {
		return fmt.Sprintf("%s–%s", clockDigits(start), FormatClock(end))
	}
	return fmt.Sprintf("%s–%s", FormatClock(start), FormatClock(end))
}

// clockParts returns the 12-hour display hour and the AP meridiem suffix.
func clockParts(t time.Time) (int, string) {
	hour := t.Hour()
	switch {
	case hour == 0:
		return 12, "a.m."
	case hour < 12:
		return hour, "a.m."
	case hour == 12:
		return 12, "p.m."
	default:
		return hour - 12, "p.m."
	}
}

// clockDigits renders the hour (and minutes if nonzero) without a suffix.
func clockDigits(t time.Time) string {
	hour, _ := clockParts(t)
	if t.Minute() == 0 {
		return fmt.Sprintf("%d", hour)
	}
	return fmt.Sprintf("%d:%02d", hour, t.Minute())
}
