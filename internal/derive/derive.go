// Package derive computes view-model facts from raw records. Every function
// is pure: derived values are never persisted, they are recomputed from rows
// on each load and after each mutation.
package derive

import (
	"github.com/renatodap/day/internal/calendar"
	"github.com/renatodap/day/internal/model"
)

// WinStatus yields today's verdict. The ordering is a priority: a workout
// shortfall always wins over flag completion, because being behind pace is
// the more actionable signal.
func WinStatus(deficit, protein bool, workoutCount, expected int) model.WinStatus {
	switch {
	case deficit && protein && workoutCount >= expected:
		return model.WinStatusWon
	case workoutCount < expected:
		return model.WinStatusBehind
	default:
		return model.WinStatusNotYet
	}
}

// Streak counts consecutive fully-won days ending at today. Logs must be in
// descending date order starting from the most recent. The scan stops at the
// first gap (a row whose date is not exactly today minus its position) or
// the first day where either flag is false.
func Streak(logs []model.DailyLog, today string) int {
	count := 0
	for i, log := range logs {
		expected, err := calendar.AddDays(today, -i)
		if err != nil {
			break
		}
		if log.Date != expected {
			break
		}
		if !(log.Deficit && log.Protein) {
			break
		}
		count++
	}
	return count
}

// WeightAverage is the arithmetic mean of the samples, nil when there are
// none. An empty window is "no data", never zero.
func WeightAverage(samples []model.WeightSample) *float64 {
	if len(samples) == 0 {
		return nil
	}
	sum := 0.0
	for _, s := range samples {
		sum += s.Weight
	}
	avg := sum / float64(len(samples))
	return &avg
}

// WeekRibbon classifies each day of the week. A day is won once its log has
// both flags true and it is not in the future; lost only once it is strictly
// past with a missing or failed log. Today stays pending until it is won.
func WeekRibbon(weekDates []string, logs []model.DailyLog, today string) []model.WeekDay {
	byDate := make(map[string]model.DailyLog, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l
	}

	ribbon := make([]model.WeekDay, 0, len(weekDates))
	for _, date := range weekDates {
		dow, err := calendar.DayOfWeekOf(date)
		if err != nil {
			continue
		}
		day := model.WeekDay{Date: date, DayOfWeek: dow, IsToday: date == today}

		isFuture := date > today
		log, hasLog := byDate[date]
		switch {
		case isFuture:
			// pending
		case hasLog && log.Deficit && log.Protein:
			day.Won = boolPtr(true)
		case date < today:
			day.Won = boolPtr(false)
		default:
			// today, not yet won: pending
		}
		ribbon = append(ribbon, day)
	}
	return ribbon
}

// CompletionCounts tallies completions per task id.
func CompletionCounts(completions []model.TaskCompletion) map[string]int {
	counts := make(map[string]int, len(completions))
	for _, c := range completions {
		counts[c.TaskID]++
	}
	return counts
}

// TasksForDay filters active tasks to those visible on the given weekday:
// single-day tasks gated by day_of_week plus every weekly-quota task.
func TasksForDay(tasks []model.RecurringTask, dayOfWeek int) []model.RecurringTask {
	visible := make([]model.RecurringTask, 0, len(tasks))
	for _, t := range tasks {
		if t.DayOfWeek == dayOfWeek || t.WeeklyTarget > 1 {
			visible = append(visible, t)
		}
	}
	return visible
}

// WeightTrend is today's weight minus the sample from a week ago, nil when
// either side is missing.
func WeightTrend(today, weekAgo *model.WeightSample) *float64 {
	if today == nil || weekAgo == nil {
		return nil
	}
	delta := today.Weight - weekAgo.Weight
	return &delta
}

func boolPtr(b bool) *bool {
	return &b
}
