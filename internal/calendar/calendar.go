// Package calendar provides timezone-local date arithmetic for the tracker.
// All values are calendar-day strings (2006-01-02) in the configured
// location, never instants, so a date written today reads back as the same
// day regardless of where it is read. Date strings compare lexicographically
// in chronological order.
package calendar

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Calendar derives local calendar days from an injected clock and location,
// keeping date math deterministic under test.
type Calendar struct {
	now func() time.Time
	loc *time.Location
}

func New(loc *time.Location) *Calendar {
	return NewWithClock(time.Now, loc)
}

func NewWithClock(now func() time.Time, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{now: now, loc: loc}
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the calendar's location.
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns today's calendar day in the calendar's location.
func (c *Calendar) Today() string {
	return c.Now().Format(DateLayout)
}

// DayOfWeek returns today's weekday, 0=Sunday .. 6=Saturday.
func (c *Calendar) DayOfWeek() int {
	return int(c.Now().Weekday())
}

// WeekStart returns the Monday on or before the given day. Sunday maps back
// six days, Monday maps back zero.
func WeekStart(date string) (string, error) {
	d, err := Parse(date)
	if err != nil {
		return "", err
	}
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back).Format(DateLayout), nil
}

// ThisWeekStart returns the Monday of the current local week.
func (c *Calendar) ThisWeekStart() string {
	start, _ := WeekStart(c.Today())
	return start
}

// WeekDates returns the seven days Monday..Sunday starting at weekStart.
func WeekDates(weekStart string) ([]string, error) {
	d, err := Parse(weekStart)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = d.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates, nil
}

// AddDays returns the calendar day n days after date (n may be negative).
func AddDays(date string, n int) (string, error) {
	d, err := Parse(date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(DateLayout), nil
}

// DayOfWeekOf returns the weekday of a date string, 0=Sunday .. 6=Saturday.
func DayOfWeekOf(date string) (int, error) {
	d, err := Parse(date)
	if err != nil {
		return 0, err
	}
	return int(d.Weekday()), nil
}

// ExpectedProgress is the linearly-paced count a user should have reached by
// the given weekday to stay on track for weeklyTarget by Sunday. The week
// runs Monday-Sunday, so Monday counts as day 1 and Sunday as day 7. The
// result is a floor and never exceeds weeklyTarget; at Sunday it equals
// weeklyTarget exactly.
func ExpectedProgress(dayOfWeek, weeklyTarget int) int {
	if weeklyTarget <= 0 {
		return 0
	}
	daysIntoWeek := dayOfWeek
	if dayOfWeek == 0 {
		daysIntoWeek = 7
	}
	return daysIntoWeek * weeklyTarget / 7
}

// DaysBetween returns the signed whole-day count from one calendar day to
// another, negative when to precedes from.
func DaysBetween(from, to string) (int, error) {
	f, err := Parse(from)
	if err != nil {
		return 0, err
	}
	t, err := Parse(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// DaysUntil returns the signed whole-day count from today to target,
// negative when target is already past.
func (c *Calendar) DaysUntil(target string) (int, error) {
	return DaysBetween(c.Today(), target)
}

func (c *Calendar) IsToday(date string) bool  { return date == c.Today() }
func (c *Calendar) IsFuture(date string) bool { return date > c.Today() }
func (c *Calendar) IsPast(date string) bool   { return date < c.Today() }

// Parse interprets a calendar-day string at midnight UTC. Callers only use
// the result for whole-day arithmetic, never compare it against instants.
func Parse(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return d, nil
}

var dayNames = [7]string{"SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"}

var monthNames = [12]string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
	"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

// FormatDisplay returns the uppercase day name, day number, and month name
// for the today-view header, e.g. ("FRIDAY", 6, "FEBRUARY").
func FormatDisplay(date string) (dayName string, dayNumber int, monthName string, err error) {
	d, err := Parse(date)
	if err != nil {
		return "", 0, "", err
	}
	return dayNames[int(d.Weekday())], d.Day(), monthNames[int(d.Month())-1], nil
}
