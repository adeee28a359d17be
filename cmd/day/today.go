package day

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renatodap/day/internal/calendar"
	"github.com/renatodap/day/internal/config"
	"github.com/renatodap/day/internal/derive"
	"github.com/renatodap/day/internal/engine"
	"github.com/renatodap/day/internal/model"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's win status, streak, and week",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(e *engine.Engine, cfg config.Config) error {
			snap, ok := e.Snapshot()
			if !ok {
				return fmt.Errorf("view-model not loaded")
			}
			out := cmd.OutOrStdout()

			dayName, dayNum, monthName, err := calendar.FormatDisplay(snap.Date)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s, %s %d\n\n", dayName, monthName, dayNum)

			fmt.Fprintf(out, "Status: %s", strings.ToUpper(string(snap.WinStatus)))
			if snap.Streak > 0 {
				fmt.Fprintf(out, " | Streak: %d", snap.Streak)
			}
			fmt.Fprintln(out)

			deficit, protein := false, false
			if snap.DailyLog != nil {
				deficit, protein = snap.DailyLog.Deficit, snap.DailyLog.Protein
			}
			fmt.Fprintf(out, "Deficit: %s | Protein: %s\n", checkmark(deficit), checkmark(protein))
			fmt.Fprintf(out, "Workouts: %d this week (pace: %d, target: %d)\n",
				snap.WeeklyWorkoutCount, e.ExpectedWorkouts(), cfg.WeeklyWorkoutTarget)

			printWeight(out, snap, e)
			printWeek(out, snap)
			printTasks(out, snap)
			return nil
		})
	},
}

func printWeight(out io.Writer, snap model.Snapshot, e *engine.Engine) {
	if snap.TodayWeight != nil {
		fmt.Fprintf(out, "Weight: %.1f lbs", snap.TodayWeight.Weight)
	} else {
		fmt.Fprintf(out, "Weight: not logged")
	}
	if snap.WeightAverage != nil {
		fmt.Fprintf(out, " | 7-day avg: %.1f", *snap.WeightAverage)
	}
	if trend := derive.WeightTrend(snap.TodayWeight, snap.WeekAgoWeight); trend != nil {
		fmt.Fprintf(out, " | week: %+.1f", *trend)
	}
	fmt.Fprintln(out)

	if snap.WeightGoal != nil && snap.WeightGoal.TargetDate != "" {
		fmt.Fprintf(out, "Goal: %.1f lbs by %s", snap.WeightGoal.TargetValue, snap.WeightGoal.TargetDate)
		if days, err := calendar.DaysBetween(snap.Date, snap.WeightGoal.TargetDate); err == nil && days >= 0 {
			fmt.Fprintf(out, " (%d days left)", days)
		}
		fmt.Fprintln(out)
	}
}

func printWeek(out io.Writer, snap model.Snapshot) {
	labels := [7]string{"M", "T", "W", "T", "F", "S", "S"}
	cells := make([]string, 0, 7)
	for i, d := range snap.Week {
		cell := labels[i]
		switch {
		case d.Won != nil && *d.Won:
			cell += "+"
		case d.Won != nil:
			cell += "-"
		default:
			cell += "."
		}
		if d.IsToday {
			cell = "[" + cell + "]"
		}
		cells = append(cells, cell)
	}
	fmt.Fprintf(out, "Week: %s\n", strings.Join(cells, " "))
}

func printTasks(out io.Writer, snap model.Snapshot) {
	if len(snap.TodayTasks) == 0 {
		return
	}
	fmt.Fprintln(out, "Tasks:")
	for _, t := range snap.TodayTasks {
		done := snap.TaskCompletions[t.ID]
		if t.WeeklyTarget > 1 {
			fmt.Fprintf(out, "  %s %s (%d/%d this week)\n", checkmark(done >= t.WeeklyTarget), t.Name, done, t.WeeklyTarget)
		} else {
			fmt.Fprintf(out, "  %s %s\n", checkmark(done >= 1), t.Name)
		}
	}
}

func checkmark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func init() {
	rootCmd.AddCommand(todayCmd)
}
