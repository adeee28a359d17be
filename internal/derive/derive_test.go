package derive_test

import (
	"testing"

	"github.com/renatodap/day/internal/calendar"
	"github.com/renatodap/day/internal/derive"
	"github.com/renatodap/day/internal/model"
)

func TestWinStatusPriority(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name             string
		deficit, protein bool
		count, expected  int
		want             model.WinStatus
	}{
		{"all conditions met", true, true, 3, 2, model.WinStatusWon},
		{"exactly on pace", true, true, 2, 2, model.WinStatusWon},
		{"flags done but behind pace", true, true, 0, 3, model.WinStatusBehind},
		{"flags missing and behind", false, false, 1, 2, model.WinStatusBehind},
		{"on pace but flags incomplete", true, false, 2, 2, model.WinStatusNotYet},
		{"no flags, zero expected", false, false, 0, 0, model.WinStatusNotYet},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := derive.WinStatus(tc.deficit, tc.protein, tc.count, tc.expected)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func winLog(date string) model.DailyLog {
	return model.DailyLog{Date: date, Deficit: true, Protein: true}
}

func TestStreakCountsConsecutiveWins(t *testing.T) {
	t.Parallel()
	logs := []model.DailyLog{
		winLog("2026-01-15"),
		winLog("2026-01-14"),
		winLog("2026-01-13"),
		// 2026-01-12 missing
		winLog("2026-01-11"),
	}
	if got := derive.Streak(logs, "2026-01-15"); got != 3 {
		t.Fatalf("expected streak 3 across the gap, got %d", got)
	}
}

func TestStreakBreaksOnLoss(t *testing.T) {
	t.Parallel()
	logs := []model.DailyLog{
		winLog("2026-01-15"),
		{Date: "2026-01-14", Deficit: true, Protein: false},
		winLog("2026-01-13"),
	}
	if got := derive.Streak(logs, "2026-01-15"); got != 1 {
		t.Fatalf("expected streak 1 after a lost day, got %d", got)
	}
}

func TestStreakBreaksOnGapBeforeToday(t *testing.T) {
	t.Parallel()
	// Most recent log is yesterday: position 0 expects today, so no streak.
	logs := []model.DailyLog{winLog("2026-01-14")}
	if got := derive.Streak(logs, "2026-01-15"); got != 0 {
		t.Fatalf("expected streak 0 when today has no log, got %d", got)
	}
}

func TestStreakEmpty(t *testing.T) {
	t.Parallel()
	if got := derive.Streak(nil, "2026-01-15"); got != 0 {
		t.Fatalf("expected streak 0 with no logs, got %d", got)
	}
}

func TestWeightAverage(t *testing.T) {
	t.Parallel()
	samples := []model.WeightSample{
		{Date: "2026-01-12", Weight: 180.0},
		{Date: "2026-01-14", Weight: 179.0},
		{Date: "2026-01-16", Weight: 178.5},
	}
	avg := derive.WeightAverage(samples)
	if avg == nil {
		t.Fatalf("expected an average, got nil")
	}
	want := (180.0 + 179.0 + 178.5) / 3
	if *avg != want {
		t.Fatalf("expected average %.10f, got %.10f", want, *avg)
	}

	if derive.WeightAverage(nil) != nil {
		t.Fatalf("expected nil average for no samples")
	}
}

func TestWeekRibbonClassification(t *testing.T) {
	t.Parallel()
	today := "2026-01-15" // Thursday
	weekDates, err := calendar.WeekDates("2026-01-12")
	if err != nil {
		t.Fatalf("week dates: %v", err)
	}
	logs := []model.DailyLog{
		winLog("2026-01-12"),                                 // Monday won
		{Date: "2026-01-13", Deficit: true, Protein: false},  // Tuesday lost
		// Wednesday missing: lost
		{Date: "2026-01-15", Deficit: true, Protein: false},  // today, incomplete
	}
	ribbon := derive.WeekRibbon(weekDates, logs, today)
	if len(ribbon) != 7 {
		t.Fatalf("expected 7 ribbon days, got %d", len(ribbon))
	}

	assertWon := func(i int, want *bool) {
		t.Helper()
		got := ribbon[i].Won
		if want == nil {
			if got != nil {
				t.Fatalf("day %s: expected pending, got %v", ribbon[i].Date, *got)
			}
			return
		}
		if got == nil || *got != *want {
			t.Fatalf("day %s: expected won=%v, got %v", ribbon[i].Date, *want, got)
		}
	}

	tr, fa := true, false
	assertWon(0, &tr) // Monday
	assertWon(1, &fa) // Tuesday
	assertWon(2, &fa) // Wednesday, no log
	assertWon(3, nil) // today, incomplete stays pending
	assertWon(4, nil) // Friday, future
	assertWon(5, nil)
	assertWon(6, nil)

	if !ribbon[3].IsToday {
		t.Fatalf("expected Thursday flagged as today")
	}
}

func TestWeekRibbonTodayWonImmediately(t *testing.T) {
	t.Parallel()
	weekDates, err := calendar.WeekDates("2026-01-12")
	if err != nil {
		t.Fatalf("week dates: %v", err)
	}
	ribbon := derive.WeekRibbon(weekDates, []model.DailyLog{winLog("2026-01-15")}, "2026-01-15")
	if ribbon[3].Won == nil || !*ribbon[3].Won {
		t.Fatalf("expected today with both flags true to be won")
	}
}

func TestCompletionCounts(t *testing.T) {
	t.Parallel()
	completions := []model.TaskCompletion{
		{TaskID: "a"}, {TaskID: "a"}, {TaskID: "b"},
	}
	counts := derive.CompletionCounts(completions)
	if counts["a"] != 2 || counts["b"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestTasksForDay(t *testing.T) {
	t.Parallel()
	tasks := []model.RecurringTask{
		{ID: "thu", Name: "Capstone", DayOfWeek: 4, WeeklyTarget: 1},
		{ID: "apps", Name: "Job Apps", DayOfWeek: 0, WeeklyTarget: 5},
	}
	thursday := derive.TasksForDay(tasks, 4)
	if len(thursday) != 2 {
		t.Fatalf("expected both tasks on Thursday, got %d", len(thursday))
	}
	monday := derive.TasksForDay(tasks, 1)
	if len(monday) != 1 || monday[0].ID != "apps" {
		t.Fatalf("expected only the weekly-quota task on Monday, got %v", monday)
	}
}

func TestWeightTrend(t *testing.T) {
	t.Parallel()
	today := &model.WeightSample{Weight: 178.5}
	weekAgo := &model.WeightSample{Weight: 180.0}
	delta := derive.WeightTrend(today, weekAgo)
	if delta == nil || *delta != -1.5 {
		t.Fatalf("expected trend -1.5, got %v", delta)
	}
	if derive.WeightTrend(today, nil) != nil {
		t.Fatalf("expected nil trend when week-ago sample missing")
	}
}
