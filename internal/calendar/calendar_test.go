package calendar_test

import (
	"testing"
	"time"

	"github.com/renatodap/day/internal/calendar"
)

func fixedCalendar(t *testing.T, instant string) *calendar.Calendar {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	at, err := time.ParseInLocation("2006-01-02 15:04:05", instant, loc)
	if err != nil {
		t.Fatalf("parse instant: %v", err)
	}
	return calendar.NewWithClock(func() time.Time { return at }, loc)
}

func TestTodayUsesConfiguredLocation(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 2026-01-16 03:00 UTC is still the evening of the 15th in New York.
	at := time.Date(2026, 1, 16, 3, 0, 0, 0, time.UTC)
	c := calendar.NewWithClock(func() time.Time { return at }, loc)
	if got := c.Today(); got != "2026-01-15" {
		t.Fatalf("expected local today 2026-01-15, got %s", got)
	}
	if got := c.DayOfWeek(); got != 4 {
		t.Fatalf("expected Thursday (4), got %d", got)
	}
}

func TestWeekStartAlwaysMonday(t *testing.T) {
	t.Parallel()
	// 2026-01-12 is a Monday.
	week := []string{
		"2026-01-12", "2026-01-13", "2026-01-14", "2026-01-15",
		"2026-01-16", "2026-01-17", "2026-01-18",
	}
	for _, date := range week {
		start, err := calendar.WeekStart(date)
		if err != nil {
			t.Fatalf("week start for %s: %v", date, err)
		}
		if start != "2026-01-12" {
			t.Fatalf("week start for %s: expected 2026-01-12, got %s", date, start)
		}
		dow, err := calendar.DayOfWeekOf(start)
		if err != nil {
			t.Fatalf("day of week: %v", err)
		}
		if dow != 1 {
			t.Fatalf("week start %s is not a Monday", start)
		}
		dates, err := calendar.WeekDates(start)
		if err != nil {
			t.Fatalf("week dates: %v", err)
		}
		if len(dates) != 7 {
			t.Fatalf("expected 7 week dates, got %d", len(dates))
		}
		found := false
		for _, d := range dates {
			if d == date {
				found = true
			}
		}
		if !found {
			t.Fatalf("week of %s does not contain it: %v", date, dates)
		}
	}
}

func TestWeekStartSundayMapsBackSixDays(t *testing.T) {
	t.Parallel()
	start, err := calendar.WeekStart("2026-01-18") // Sunday
	if err != nil {
		t.Fatalf("week start: %v", err)
	}
	if start != "2026-01-12" {
		t.Fatalf("expected Sunday to map back to 2026-01-12, got %s", start)
	}
}

func TestWeekDatesOrderedMondayToSunday(t *testing.T) {
	t.Parallel()
	dates, err := calendar.WeekDates("2026-01-12")
	if err != nil {
		t.Fatalf("week dates: %v", err)
	}
	want := []string{
		"2026-01-12", "2026-01-13", "2026-01-14", "2026-01-15",
		"2026-01-16", "2026-01-17", "2026-01-18",
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("week dates[%d]: expected %s, got %s", i, want[i], dates[i])
		}
	}
}

func TestExpectedProgressBounds(t *testing.T) {
	t.Parallel()
	for dow := 0; dow <= 6; dow++ {
		for target := 0; target <= 21; target++ {
			got := calendar.ExpectedProgress(dow, target)
			if got < 0 || got > target {
				t.Fatalf("expected progress out of bounds: dow=%d target=%d got=%d", dow, target, got)
			}
		}
	}
	// Sunday is day 7 of the week, so the full target is due.
	if got := calendar.ExpectedProgress(0, 15); got != 15 {
		t.Fatalf("expected full target 15 on Sunday, got %d", got)
	}
	if got := calendar.ExpectedProgress(1, 15); got != 2 {
		t.Fatalf("expected floor(1/7*15)=2 on Monday, got %d", got)
	}
	if got := calendar.ExpectedProgress(6, 15); got != 12 {
		t.Fatalf("expected floor(6/7*15)=12 on Saturday, got %d", got)
	}
}

func TestDaysUntil(t *testing.T) {
	t.Parallel()
	c := fixedCalendar(t, "2026-01-15 22:45:00")
	cases := []struct {
		target string
		want   int
	}{
		{"2026-01-15", 0},
		{"2026-01-16", 1},
		{"2026-02-06", 22},
		{"2026-01-10", -5},
	}
	for _, tc := range cases {
		got, err := c.DaysUntil(tc.target)
		if err != nil {
			t.Fatalf("days until %s: %v", tc.target, err)
		}
		if got != tc.want {
			t.Fatalf("days until %s: expected %d, got %d", tc.target, tc.want, got)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()
	if got, err := calendar.DaysBetween("2026-01-15", "2026-02-06"); err != nil || got != 22 {
		t.Fatalf("expected 22 days, got %d (%v)", got, err)
	}
	if got, err := calendar.DaysBetween("2026-01-15", "2026-01-10"); err != nil || got != -5 {
		t.Fatalf("expected -5 days, got %d (%v)", got, err)
	}
	if _, err := calendar.DaysBetween("garbage", "2026-01-10"); err == nil {
		t.Fatalf("expected error for a bad date")
	}
}

func TestPastTodayFuturePredicates(t *testing.T) {
	t.Parallel()
	c := fixedCalendar(t, "2026-01-15 08:00:00")
	if !c.IsPast("2026-01-14") || c.IsPast("2026-01-15") {
		t.Fatalf("IsPast misclassified")
	}
	if !c.IsToday("2026-01-15") || c.IsToday("2026-01-16") {
		t.Fatalf("IsToday misclassified")
	}
	if !c.IsFuture("2026-01-16") || c.IsFuture("2026-01-15") {
		t.Fatalf("IsFuture misclassified")
	}
}

func TestFormatDisplay(t *testing.T) {
	t.Parallel()
	day, num, month, err := calendar.FormatDisplay("2026-02-06")
	if err != nil {
		t.Fatalf("format display: %v", err)
	}
	if day != "FRIDAY" || num != 6 || month != "FEBRUARY" {
		t.Fatalf("expected FRIDAY 6 FEBRUARY, got %s %d %s", day, num, month)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()
	if _, err := calendar.Parse("01/15/2026"); err == nil {
		t.Fatalf("expected parse failure for non-ISO date")
	}
}
